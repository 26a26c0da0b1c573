package consent

import (
	"time"

	"github.com/sprite-ai/consent/internal/locale"
	"github.com/sprite-ai/consent/internal/logging"
	"github.com/sprite-ai/consent/internal/model"
)

// DefaultPolicyURL is opened by the information link unless overridden.
const DefaultPolicyURL = "https://www.abacus.ch/links/privacy-policy/mobile-apps"

// State is the lifecycle phase of a Screen.
type State int

const (
	StateConfiguring State = iota
	StatePresenting
	StateCommitted
)

func (s State) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StatePresenting:
		return "presenting"
	case StateCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// ConfirmationEvent is emitted once, when the user confirms.
type ConfirmationEvent struct {
	Option      model.ReportingOption
	CommittedAt time.Time
}

// Screen is one consent presentation session.
//
// All methods must be called from a single goroutine.
type Screen struct {
	state     State
	catalog   Catalog
	mode      model.PresentationMode
	preferred model.ReportingOption
	resolver  Resolver
	policyURL string
	strings   *locale.Bundle

	selection *Selection
	cursor    int

	onCommit         func(ConfirmationEvent)
	openLink         func(url string)
	onSelect         func(model.ReportingOption)
	onCatalogChanged func(Catalog)
	onModeChanged    func(model.PresentationMode)

	now func() time.Time
}

// NewScreen returns a screen in the Configuring state with every option
// enabled and FullReporting preferred.
func NewScreen() *Screen {
	return &Screen{
		catalog:   DefaultCatalog(),
		mode:      model.Automatic,
		preferred: model.FullReporting,
		resolver:  DefaultResolver(),
		policyURL: DefaultPolicyURL,
		strings:   locale.Default(),
		now:       time.Now,
	}
}

// State returns the lifecycle phase.
func (s *Screen) State() State { return s.state }

// Catalog returns the active catalog.
func (s *Screen) Catalog() Catalog { return s.catalog }

// Mode returns the requested (unresolved) presentation mode.
func (s *Screen) Mode() model.PresentationMode { return s.mode }

// Resolver returns the layout resolver.
func (s *Screen) Resolver() Resolver { return s.resolver }

// PolicyURL returns the privacy policy link.
func (s *Screen) PolicyURL() string { return s.policyURL }

// Strings returns the localization bundle.
func (s *Screen) Strings() *locale.Bundle { return s.strings }

// SetCatalog is ReplaceCatalog under its configuration-time name.
func (s *Screen) SetCatalog(c Catalog) error { return s.ReplaceCatalog(c) }

// SetPreferred sets the option selected when the screen is presented.
func (s *Screen) SetPreferred(o model.ReportingOption) { s.preferred = o }

// SetResolver replaces the threshold policy used by Layout.
func (s *Screen) SetResolver(r Resolver) { s.resolver = r }

// SetPolicyURL overrides the privacy policy link.
func (s *Screen) SetPolicyURL(url string) {
	if url != "" {
		s.policyURL = url
	}
}

// SetStrings replaces the localization bundle.
func (s *Screen) SetStrings(b *locale.Bundle) {
	if b != nil {
		s.strings = b
	}
}

// SetCommitHandler registers the single host observer for Confirm.
func (s *Screen) SetCommitHandler(fn func(ConfirmationEvent)) { s.onCommit = fn }

// SetLinkOpener registers the host capability that opens external links.
func (s *Screen) SetLinkOpener(fn func(url string)) { s.openLink = fn }

// SetSelectionHandler registers a callback for selection changes.
func (s *Screen) SetSelectionHandler(fn func(model.ReportingOption)) { s.onSelect = fn }

// OnCatalogChanged registers a callback fired after ReplaceCatalog.
func (s *Screen) OnCatalogChanged(fn func(Catalog)) { s.onCatalogChanged = fn }

// OnModeChanged registers a callback fired after SetMode.
func (s *Screen) OnModeChanged(fn func(model.PresentationMode)) { s.onModeChanged = fn }

// SetMode changes the requested presentation mode.
func (s *Screen) SetMode(m model.PresentationMode) error {
	if s.state == StateCommitted {
		return ErrCommitted
	}
	if m == s.mode {
		return nil
	}
	s.mode = m
	if s.onModeChanged != nil {
		s.onModeChanged(m)
	}
	return nil
}

// Present validates the configuration and starts the interactive phase.
func (s *Screen) Present() error {
	switch s.state {
	case StatePresenting:
		return nil
	case StateCommitted:
		return ErrCommitted
	}
	sel, err := NewSelection(s.catalog, s.preferred)
	if err != nil {
		return err
	}
	sel.OnChange = func(o model.ReportingOption) {
		if s.onSelect != nil {
			s.onSelect(o)
		}
	}
	s.selection = sel
	s.state = StatePresenting
	s.moveCursorTo(sel.Current())
	if sel.Current() != s.preferred {
		logging.Debug("preferred option %s not enabled, selected %s", s.preferred, sel.Current())
	}
	return nil
}

// Current returns the selected option. ok is false before Present.
func (s *Screen) Current() (o model.ReportingOption, ok bool) {
	if s.selection == nil {
		return 0, false
	}
	return s.selection.Current(), true
}

// IsSelected reports whether o is the selected option.
func (s *Screen) IsSelected(o model.ReportingOption) bool {
	return s.selection != nil && s.selection.IsSelected(o)
}

// Select applies a user tap. Taps that arrive outside the Presenting
// state or on a disabled option are dropped and reported as false.
func (s *Screen) Select(o model.ReportingOption) bool {
	if s.state != StatePresenting {
		logging.Debug("select %s ignored in state %s", o, s.state)
		return false
	}
	if err := s.selection.Select(o); err != nil {
		logging.Debug("select ignored: %v", err)
		return false
	}
	s.moveCursorTo(o)
	return true
}

// ReplaceCatalog swaps the catalog. While presenting, a selection that is
// no longer enabled is clamped to the highest enabled option. An empty
// catalog is rejected and the previous one stays active.
func (s *Screen) ReplaceCatalog(c Catalog) error {
	switch s.state {
	case StateCommitted:
		return ErrCommitted
	case StatePresenting:
		changed, err := s.selection.Clamp(c)
		if err != nil {
			return err
		}
		if changed {
			logging.Info("selection clamped to %s after catalog change", s.selection.Current())
		}
	}
	s.catalog = c
	if s.selection != nil {
		s.moveCursorTo(s.selection.Current())
	}
	if s.onCatalogChanged != nil {
		s.onCatalogChanged(c)
	}
	return nil
}

// Layout resolves the presentation mode for vp and builds the row plan.
// It is meant to be called on every layout pass.
func (s *Screen) Layout(vp Viewport) Layout {
	mode := s.resolver.Resolve(s.mode, vp.Height, vp.Device)
	return Layout{Mode: mode, Rows: BuildRowPlan(s.catalog, mode)}
}

// Confirm commits the selected option and notifies the commit handler.
func (s *Screen) Confirm() (ConfirmationEvent, error) {
	switch s.state {
	case StateConfiguring:
		return ConfirmationEvent{}, ErrNotPresenting
	case StateCommitted:
		return ConfirmationEvent{}, ErrCommitted
	}
	ev := ConfirmationEvent{Option: s.selection.Current(), CommittedAt: s.now()}
	s.state = StateCommitted
	logging.Info("consent committed: %s", ev.Option)
	if s.onCommit != nil {
		s.onCommit(ev)
	}
	return ev, nil
}

// OpenPrivacyPolicy hands the policy URL to the link opener. It reports
// whether the request was forwarded.
func (s *Screen) OpenPrivacyPolicy() bool {
	if s.state == StateCommitted || s.openLink == nil {
		return false
	}
	s.openLink(s.policyURL)
	return true
}

// Cursor returns the option under the keyboard cursor.
func (s *Screen) Cursor() (model.ReportingOption, bool) {
	opts := s.catalog.EnabledOptions()
	if len(opts) == 0 {
		return 0, false
	}
	if s.cursor >= len(opts) {
		s.cursor = len(opts) - 1
	}
	return opts[s.cursor], true
}

// CursorNext moves the cursor down one option, stopping at the last.
func (s *Screen) CursorNext() {
	if s.cursor < len(s.catalog.EnabledOptions())-1 {
		s.cursor++
	}
}

// CursorPrev moves the cursor up one option, stopping at the first.
func (s *Screen) CursorPrev() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// SelectCursor selects the option under the cursor.
func (s *Screen) SelectCursor() bool {
	o, ok := s.Cursor()
	if !ok {
		return false
	}
	return s.Select(o)
}

func (s *Screen) moveCursorTo(o model.ReportingOption) {
	for i, e := range s.catalog.EnabledOptions() {
		if e == o {
			s.cursor = i
			return
		}
	}
	s.cursor = 0
}
