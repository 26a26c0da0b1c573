package consent

import (
	"fmt"

	"github.com/sprite-ai/consent/internal/model"
)

// Selection tracks the single chosen option among the enabled ones.
type Selection struct {
	catalog  Catalog
	selected model.ReportingOption

	// OnChange is called after every successful Select or clamping change.
	OnChange func(model.ReportingOption)
}

// NewSelection picks preferred if enabled, else the highest enabled option.
func NewSelection(c Catalog, preferred model.ReportingOption) (*Selection, error) {
	s := &Selection{catalog: c}
	if c.Allows(preferred) {
		s.selected = preferred
		return s, nil
	}
	h, ok := c.Highest()
	if !ok {
		return nil, &ConfigurationError{Catalog: c}
	}
	s.selected = h
	return s, nil
}

// Current returns the selected option.
func (s *Selection) Current() model.ReportingOption {
	return s.selected
}

// Catalog returns the catalog the selection is validated against.
func (s *Selection) Catalog() Catalog {
	return s.catalog
}

// Select replaces the current option.
func (s *Selection) Select(o model.ReportingOption) error {
	if !s.catalog.Allows(o) {
		return fmt.Errorf("select %s: %w", o, ErrInvalidSelection)
	}
	s.selected = o
	if s.OnChange != nil {
		s.OnChange(o)
	}
	return nil
}

// Clamp swaps in a new catalog. If the current option is no longer
// enabled the selection falls back to the highest enabled one. Clamping to
// an empty catalog keeps the stale value and returns ErrConfiguration.
func (s *Selection) Clamp(c Catalog) (changed bool, err error) {
	if c.Empty() {
		return false, &ConfigurationError{Catalog: c}
	}
	s.catalog = c
	if c.Allows(s.selected) {
		return false, nil
	}
	h, _ := c.Highest()
	s.selected = h
	if s.OnChange != nil {
		s.OnChange(h)
	}
	return true, nil
}

// IsSelected reports whether o is the current option.
func (s *Selection) IsSelected(o model.ReportingOption) bool {
	return s.selected == o
}
