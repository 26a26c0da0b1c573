package highlight

import (
	"strings"
	"testing"
)

const sampleConfig = `[options]
no-reporting = true

[presentation]
mode = 'automatic'
`

func TestLinesTOML(t *testing.T) {
	lines := Lines("config.toml", sampleConfig)
	want := strings.Split(strings.TrimRight(sampleConfig, "\n"), "\n")

	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i].Plain() != want[i] {
			t.Errorf("line %d: plain text %q, want %q", i, lines[i].Plain(), want[i])
		}
	}
	if len(lines[0].Tokens) == 0 {
		t.Error("expected tokens in first line")
	}
}

func TestLinesUnknownLanguage(t *testing.T) {
	lines := Lines("unknown.xyz123", "some content\nmore content")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Plain() != "some content" {
		t.Errorf("expected plain passthrough, got %q", lines[0].Plain())
	}
}

func TestDelta(t *testing.T) {
	before := "a = 1\nb = 2\nc = 3\n"
	after := "a = 1\nb = 5\nc = 3\n"

	lines := Delta(before, after)
	if !Changed(lines) {
		t.Fatal("expected a change")
	}

	var added, removed []string
	for _, l := range lines {
		switch l.Op {
		case DeltaAdded:
			added = append(added, l.Text)
		case DeltaRemoved:
			removed = append(removed, l.Text)
		}
	}
	if len(added) != 1 || added[0] != "b = 5" {
		t.Errorf("added = %v", added)
	}
	if len(removed) != 1 || removed[0] != "b = 2" {
		t.Errorf("removed = %v", removed)
	}

	out := RenderDelta(lines)
	if !strings.Contains(out, "+ b = 5") || !strings.Contains(out, "- b = 2") {
		t.Errorf("rendered delta missing markers: %q", out)
	}
}

func TestDeltaUnchanged(t *testing.T) {
	if Changed(Delta("x\n", "x\n")) {
		t.Error("identical input should not be changed")
	}
}
