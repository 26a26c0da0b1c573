package locale

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sprite-ai/consent/internal/model"
)

const germanBundle = `language: de
strings:
  "consent options title label": "Hilf uns"
  "consent button bug reporting title": "Fehlerberichte"
  "not a real key": "ignored"
`

func TestDefaultBundle(t *testing.T) {
	b := Default()
	if got := b.Get(KeyConfirm); got != "Confirm" {
		t.Errorf("Get(confirm) = %q", got)
	}
	if got := b.Get("missing key"); got != "missing key" {
		t.Errorf("unknown key should echo itself, got %q", got)
	}
}

func TestParseOverridesAndFallback(t *testing.T) {
	b, err := Parse([]byte(germanBundle))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if b.Language != "de" {
		t.Errorf("Language = %q", b.Language)
	}
	if got := b.Get(KeyTitle); got != "Hilf uns" {
		t.Errorf("title = %q", got)
	}
	if got := b.OptionTitle(model.BugReporting); got != "Fehlerberichte" {
		t.Errorf("bug title = %q", got)
	}
	if got := b.OptionTitle(model.NoReporting); got != "No reporting" {
		t.Errorf("missing key should fall back to English, got %q", got)
	}
	if _, ok := b.values["not a real key"]; ok {
		t.Error("unknown keys should be dropped")
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("strings: [unclosed")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "de.yaml")
	if err := os.WriteFile(path, []byte(germanBundle), 0644); err != nil {
		t.Fatal(err)
	}
	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Get(KeyTitle) != "Hilf uns" {
		t.Errorf("unexpected title %q", b.Get(KeyTitle))
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestOptionMessages(t *testing.T) {
	b := Default()
	for _, o := range model.AllOptions {
		if b.OptionMessage(o) == "" {
			t.Errorf("empty message for %s", o)
		}
	}
}
