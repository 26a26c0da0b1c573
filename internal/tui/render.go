package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/sprite-ai/consent/internal/consent"
	"github.com/sprite-ai/consent/internal/locale"
	"github.com/sprite-ai/consent/internal/model"
)

// rowContext is what a row needs from the screen to draw itself.
type rowContext struct {
	strings  *locale.Bundle
	width    int
	selected func(model.ReportingOption) bool
	cursor   model.ReportingOption
	focused  bool // false once committed or before present
}

func newRowContext(s *consent.Screen, width int) rowContext {
	cur, ok := s.Cursor()
	return rowContext{
		strings:  s.Strings(),
		width:    width,
		selected: s.IsSelected,
		cursor:   cur,
		focused:  ok && s.State() == consent.StatePresenting,
	}
}

// renderRow draws a single row of the plan.
func renderRow(row model.Row, rc rowContext) string {
	switch row.Kind {
	case model.RowTitle:
		title := truncate.StringWithTail(rc.strings.Get(locale.KeyTitle), uint(max(rc.width, 1)), "…")
		return titleStyle.Width(rc.width).Render(title)

	case model.RowSubtitle:
		return subtitleStyle.Width(rc.width).Render(rc.strings.Get(locale.KeyMessage))

	case model.RowOption:
		return renderOption(row.Option, rc)

	case model.RowFooter:
		button := confirmButtonStyle.Render(rc.strings.Get(locale.KeyConfirm))
		link := linkStyle.Render(rc.strings.Get(locale.KeyInformation))
		return lipgloss.PlaceHorizontal(rc.width, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center, "", button, "", link))
	}
	return ""
}

func renderOption(o model.ReportingOption, rc rowContext) string {
	marker := "  "
	if rc.focused && o == rc.cursor {
		marker = cursorStyle.Render("› ")
	}

	radio := radioOffStyle.Render("( )")
	if rc.selected(o) {
		radio = radioOnStyle.Render("(•)")
	}

	textWidth := rc.width - 6
	if textWidth < 10 {
		textWidth = 10
	}
	title := optionTitleStyle.Render(rc.strings.OptionTitle(o))
	msg := optionMessageStyle.Width(textWidth).Render(rc.strings.OptionMessage(o))

	head := marker + radio + " " + title
	body := lipgloss.NewStyle().PaddingLeft(6).Render(msg)
	return head + "\n" + body + "\n"
}

// renderedRows is the list region of the screen plus the line span of
// each option, used to keep the cursor in view.
type renderedRows struct {
	content string
	spans   map[model.ReportingOption][2]int
}

func renderRows(rows []model.Row, rc rowContext) renderedRows {
	out := renderedRows{spans: make(map[model.ReportingOption][2]int)}
	var parts []string
	line := 0
	for _, row := range rows {
		s := renderRow(row, rc)
		h := lipgloss.Height(s)
		if row.Kind == model.RowOption {
			out.spans[row.Option] = [2]int{line, h}
		}
		parts = append(parts, s)
		line += h
	}
	out.content = strings.Join(parts, "\n")
	return out
}
