package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorBlue   = lipgloss.Color("#3681dd")
	colorGreen  = lipgloss.Color("#50fa7b")
	colorRed    = lipgloss.Color("#ff5555")
	colorYellow = lipgloss.Color("#f1fa8c")
	colorDim    = lipgloss.Color("#6272a4")
	colorFg     = lipgloss.Color("#f8f8f2")
	colorWhite  = lipgloss.Color("#ffffff")
	colorBorder = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Bold(true).
			Align(lipgloss.Center).
			Padding(1, 0)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Padding(0, 0, 1, 0)

	// Option rows
	radioOnStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	radioOffStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	optionTitleStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Bold(true)

	optionMessageStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	// Footer
	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(colorWhite).
				Background(colorBlue).
				Bold(true).
				Align(lipgloss.Center).
				Padding(0, 2)

	linkStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Underline(true).
			Align(lipgloss.Center)

	pinnedStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, false).
			BorderForeground(colorBorder)

	// Status
	noticeStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
