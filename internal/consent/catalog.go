// Package consent holds the toolkit-independent state of the consent
// screen: which options exist, which one is chosen, how the screen is laid
// out and when the choice is committed.
package consent

import "github.com/sprite-ai/consent/internal/model"

// Catalog holds the enabled flag of every reporting option.
type Catalog struct {
	AllowNoReporting   bool `json:"no_reporting" toml:"no-reporting"`
	AllowBugReporting  bool `json:"bug_reporting" toml:"bug-reporting"`
	AllowFullReporting bool `json:"full_reporting" toml:"full-reporting"`
}

// DefaultCatalog enables every option.
func DefaultCatalog() Catalog {
	return Catalog{AllowNoReporting: true, AllowBugReporting: true, AllowFullReporting: true}
}

// Allows reports whether o is enabled.
func (c Catalog) Allows(o model.ReportingOption) bool {
	switch o {
	case model.NoReporting:
		return c.AllowNoReporting
	case model.BugReporting:
		return c.AllowBugReporting
	case model.FullReporting:
		return c.AllowFullReporting
	default:
		return false
	}
}

// EnabledOptions returns the enabled options in catalog order.
func (c Catalog) EnabledOptions() []model.ReportingOption {
	var out []model.ReportingOption
	for _, o := range model.AllOptions {
		if c.Allows(o) {
			out = append(out, o)
		}
	}
	return out
}

// Empty reports whether no option is enabled.
func (c Catalog) Empty() bool {
	return !c.AllowNoReporting && !c.AllowBugReporting && !c.AllowFullReporting
}

// Highest returns the most permissive enabled option.
func (c Catalog) Highest() (model.ReportingOption, bool) {
	for i := len(model.AllOptions) - 1; i >= 0; i-- {
		if c.Allows(model.AllOptions[i]) {
			return model.AllOptions[i], true
		}
	}
	return 0, false
}
