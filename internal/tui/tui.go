// Package tui implements the Bubble Tea consent screen.
package tui

import (
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/sprite-ai/consent/internal/config"
	"github.com/sprite-ai/consent/internal/consent"
	"github.com/sprite-ai/consent/internal/logging"
	"github.com/sprite-ai/consent/internal/model"
)

// PointsPerRow converts terminal rows into the logical units the layout
// threshold is expressed in.
const PointsPerRow = 16

// Options configures the host side of the screen.
type Options struct {
	// ConfigPath is watched for changes; empty disables live reload.
	ConfigPath string
	// OpenLink opens the privacy policy. Nil disables the link.
	OpenLink func(url string) error
	// WideWidth is the width at which the terminal counts as a large
	// device. Zero uses config.DefaultWideWidth.
	WideWidth int
	// Reload reads the config after ConfigPath changed. Hosts that layer
	// overrides on top of the file apply them here. Nil uses config.Load.
	Reload func(path string) (*config.Config, error)

	clipboard func(text string) error
}

// hostEvents collects callbacks fired by the screen during Update.
type hostEvents struct {
	committed   *consent.ConfirmationEvent
	pendingLink string
	notice      string
}

// Model is the top-level Bubble Tea model for the consent screen.
type Model struct {
	screen *consent.Screen
	events *hostEvents
	opts   Options

	// UI state
	width  int
	height int

	layout consent.Layout
	list   viewport.Model
	help   help.Model

	notice    string
	noticeErr bool

	watcher *fsnotify.Watcher
}

// New presents s and wraps it in a Model.
func New(s *consent.Screen, opts Options) (Model, error) {
	if opts.WideWidth <= 0 {
		opts.WideWidth = config.DefaultWideWidth
	}
	if opts.Reload == nil {
		opts.Reload = config.Load
	}
	if opts.clipboard == nil {
		opts.clipboard = clipboard.WriteAll
	}

	ev := &hostEvents{}
	s.SetCommitHandler(func(c consent.ConfirmationEvent) { ev.committed = &c })
	if opts.OpenLink != nil {
		s.SetLinkOpener(func(url string) { ev.pendingLink = url })
	}
	s.OnCatalogChanged(func(consent.Catalog) { ev.notice = "Options updated" })
	s.OnModeChanged(func(m model.PresentationMode) { ev.notice = "Layout: " + m.String() })

	if err := s.Present(); err != nil {
		return Model{}, err
	}

	m := Model{
		screen: s,
		events: ev,
		opts:   opts,
		list:   viewport.New(0, 0),
		help:   help.New(),
	}
	return m, nil
}

// Committed returns the confirmation, or nil if the user quit.
func (m Model) Committed() *consent.ConfirmationEvent {
	return m.events.committed
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return waitForChange(m.watcher, m.opts.ConfigPath)
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case configChangedMsg:
		m.reloadConfig()
		cmd = waitForChange(m.watcher, m.opts.ConfigPath)

	case watchErrMsg:
		m.setError(fmt.Sprintf("config watch: %v", msg.err))
		cmd = waitForChange(m.watcher, m.opts.ConfigPath)

	case linkOpenedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("could not open %s: %v", msg.url, msg.err))
		} else {
			m.setNotice("Opened " + msg.url)
		}

	case copiedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("copy failed: %v", msg.err))
		} else {
			m.setNotice("Link copied to clipboard")
		}
	}

	if m.events.notice != "" {
		m.setNotice(m.events.notice)
		m.events.notice = ""
	}
	m.relayout()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		logging.Info("consent screen dismissed without commit")
		return tea.Quit

	case key.Matches(msg, keys.Up):
		m.screen.CursorPrev()

	case key.Matches(msg, keys.Down):
		m.screen.CursorNext()

	case key.Matches(msg, keys.Choose):
		if n, err := strconv.Atoi(msg.String()); err == nil {
			opts := m.screen.Catalog().EnabledOptions()
			if n >= 1 && n <= len(opts) {
				m.screen.Select(opts[n-1])
			}
			return nil
		}
		m.screen.SelectCursor()

	case key.Matches(msg, keys.Confirm):
		if _, err := m.screen.Confirm(); err != nil {
			m.setError(err.Error())
			return nil
		}
		return tea.Quit

	case key.Matches(msg, keys.Policy):
		if !m.screen.OpenPrivacyPolicy() {
			m.setNotice(m.screen.PolicyURL())
			return nil
		}
		url := m.events.pendingLink
		m.events.pendingLink = ""
		return openLink(m.opts.OpenLink, url)

	case key.Matches(msg, keys.Copy):
		return copyText(m.opts.clipboard, m.screen.PolicyURL())

	case key.Matches(msg, keys.Mode):
		if err := m.screen.SetMode(nextMode(m.screen.Mode())); err != nil {
			m.setError(err.Error())
		}

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func nextMode(cur model.PresentationMode) model.PresentationMode {
	switch cur {
	case model.Automatic:
		return model.CompactOnly
	case model.CompactOnly:
		return model.ExpandedWithHeaderFooter
	default:
		return model.Automatic
	}
}

func (m *Model) reloadConfig() {
	cfg, err := m.opts.Reload(m.opts.ConfigPath)
	if err == nil {
		err = cfg.ApplyTo(m.screen)
	}
	if err != nil {
		logging.Warn("config reload failed: %v", err)
		m.setError(fmt.Sprintf("config reload: %v", err))
		// The error outranks any notice queued by screen callbacks.
		m.events.notice = ""
		return
	}
	m.opts.WideWidth = cfg.Presentation.WideWidth
	logging.Info("config reloaded from %s", m.opts.ConfigPath)
}

func (m *Model) setNotice(s string) {
	m.notice = s
	m.noticeErr = false
}

func (m *Model) setError(s string) {
	m.notice = s
	m.noticeErr = true
}

func (m Model) device() model.DeviceClass {
	if m.width >= m.opts.WideWidth {
		return model.DeviceLarge
	}
	return model.DevicePhone
}

// relayout resolves the presentation mode for the current window and
// refreshes the scrolling list. It runs after every message.
func (m *Model) relayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.layout = m.screen.Layout(consent.Viewport{
		Height: m.height * PointsPerRow,
		Device: m.device(),
	})

	rc := newRowContext(m.screen, m.width)
	listHeight := m.height - lipgloss.Height(m.help.View(keys)) - 1
	if m.layout.PinnedHeader() {
		listHeight -= lipgloss.Height(m.header(rc)) + lipgloss.Height(m.footer(rc))
	}
	if listHeight < 1 {
		listHeight = 1
	}

	rows := renderRows(m.layout.Rows, rc)
	m.list.Width = m.width
	m.list.Height = listHeight
	m.list.SetContent(rows.content)

	if span, ok := rows.spans[rc.cursor]; ok {
		top, h := span[0], span[1]
		switch {
		case top < m.list.YOffset:
			m.list.SetYOffset(top)
		case top+h > m.list.YOffset+m.list.Height:
			m.list.SetYOffset(top + h - m.list.Height)
		}
	}
}

func (m Model) header(rc rowContext) string {
	return pinnedStyle.BorderBottom(true).Render(renderRow(model.Row{Kind: model.RowTitle}, rc))
}

func (m Model) footer(rc rowContext) string {
	return pinnedStyle.BorderTop(true).Render(renderRow(model.Row{Kind: model.RowFooter}, rc))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.screen.State() == consent.StateCommitted {
		return ""
	}

	status := ""
	if m.notice != "" {
		if m.noticeErr {
			status = errorStyle.Render(m.notice)
		} else {
			status = noticeStyle.Render(m.notice)
		}
	}
	helpView := helpBarStyle.Render(m.help.View(keys))

	if m.layout.PinnedHeader() {
		rc := newRowContext(m.screen, m.width)
		return lipgloss.JoinVertical(lipgloss.Left,
			m.header(rc), m.list.View(), m.footer(rc), status, helpView)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), status, helpView)
}

// Run presents s in the terminal and blocks until the user confirms or
// quits. The returned event is nil when the user quit.
func Run(s *consent.Screen, opts Options) (*consent.ConfirmationEvent, error) {
	m, err := New(s, opts)
	if err != nil {
		return nil, err
	}

	if opts.ConfigPath != "" {
		w, err := watchConfig(opts.ConfigPath)
		if err != nil {
			logging.Warn("live reload disabled: %v", err)
		} else {
			m.watcher = w
			defer w.Close()
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	return m.Committed(), nil
}
