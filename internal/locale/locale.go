// Package locale holds the user-visible strings of the consent screen.
package locale

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/consent/internal/model"
)

// Localization keys.
const (
	KeyTitle           = "consent options title label"
	KeyMessage         = "consent options message label"
	KeyConfirm         = "consent options confirm title"
	KeyInformation     = "consent options information title"
	KeyNoTitle         = "consent button no reporting title"
	KeyNoMessage       = "consent button no reporting message"
	KeyBugTitle        = "consent button bug reporting title"
	KeyBugMessage      = "consent button bug reporting message"
	KeyDiagnoseTitle   = "consent button diagnose reporting title"
	KeyDiagnoseMessage = "consent button diagnose reporting message"
)

var defaults = map[string]string{
	KeyTitle:           "Help us improve",
	KeyMessage:         "Choose what this application may report. You can change your choice later in the settings.",
	KeyConfirm:         "Confirm",
	KeyInformation:     "Privacy policy",
	KeyNoTitle:         "No reporting",
	KeyNoMessage:       "Nothing is sent.",
	KeyBugTitle:        "Bug reporting",
	KeyBugMessage:      "Crash reports and error details are sent.",
	KeyDiagnoseTitle:   "Full reporting",
	KeyDiagnoseMessage: "Crash reports and anonymous usage diagnostics are sent.",
}

// Bundle maps localization keys to display strings. Missing keys fall
// back to the built-in English text, then to the key itself.
type Bundle struct {
	Language string
	values   map[string]string
}

// file is the on-disk YAML layout.
type file struct {
	Language string            `yaml:"language"`
	Strings  map[string]string `yaml:"strings"`
}

// Default returns the built-in English bundle.
func Default() *Bundle {
	return &Bundle{Language: "en", values: map[string]string{}}
}

// Parse decodes a YAML bundle. Keys that are not localization keys are
// ignored.
func Parse(data []byte) (*Bundle, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing locale bundle: %w", err)
	}
	b := &Bundle{Language: f.Language, values: map[string]string{}}
	for k, v := range f.Strings {
		if _, known := defaults[k]; known {
			b.values[k] = v
		}
	}
	return b, nil
}

// Load reads a YAML bundle from path.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading locale bundle: %w", err)
	}
	return Parse(data)
}

// Get returns the string for key.
func (b *Bundle) Get(key string) string {
	if b != nil {
		if v, ok := b.values[key]; ok && v != "" {
			return v
		}
	}
	if v, ok := defaults[key]; ok {
		return v
	}
	return key
}

// OptionTitle returns the label for o.
func (b *Bundle) OptionTitle(o model.ReportingOption) string {
	switch o {
	case model.NoReporting:
		return b.Get(KeyNoTitle)
	case model.BugReporting:
		return b.Get(KeyBugTitle)
	default:
		return b.Get(KeyDiagnoseTitle)
	}
}

// OptionMessage returns the explanatory line for o.
func (b *Bundle) OptionMessage(o model.ReportingOption) string {
	switch o {
	case model.NoReporting:
		return b.Get(KeyNoMessage)
	case model.BugReporting:
		return b.Get(KeyBugMessage)
	default:
		return b.Get(KeyDiagnoseMessage)
	}
}
