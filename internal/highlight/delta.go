package highlight

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

// DeltaOp marks a line of a Delta.
type DeltaOp int

const (
	DeltaEqual DeltaOp = iota
	DeltaAdded
	DeltaRemoved
)

// DeltaLine is one line of a line-level comparison.
type DeltaLine struct {
	Op   DeltaOp
	Text string
}

var (
	deltaAddStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50fa7b"))
	deltaDelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555"))
	deltaEqStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272a4"))
)

// Delta compares before and after line by line.
func Delta(before, after string) []DeltaLine {
	d := dmp.New()
	a, b, lines := d.DiffLinesToChars(before, after)
	diffs := d.DiffMain(a, b, false)
	diffs = d.DiffCharsToLines(diffs, lines)

	var out []DeltaLine
	for _, df := range diffs {
		op := DeltaEqual
		switch df.Type {
		case dmp.DiffInsert:
			op = DeltaAdded
		case dmp.DiffDelete:
			op = DeltaRemoved
		}
		for _, line := range strings.Split(strings.TrimSuffix(df.Text, "\n"), "\n") {
			out = append(out, DeltaLine{Op: op, Text: line})
		}
	}
	return out
}

// Changed reports whether any line differs.
func Changed(lines []DeltaLine) bool {
	for _, l := range lines {
		if l.Op != DeltaEqual {
			return true
		}
	}
	return false
}

// RenderDelta formats lines with +/- prefixes and colours.
func RenderDelta(lines []DeltaLine) string {
	var b strings.Builder
	for i, l := range lines {
		switch l.Op {
		case DeltaAdded:
			b.WriteString(deltaAddStyle.Render("+ " + l.Text))
		case DeltaRemoved:
			b.WriteString(deltaDelStyle.Render("- " + l.Text))
		default:
			b.WriteString(deltaEqStyle.Render("  " + l.Text))
		}
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
