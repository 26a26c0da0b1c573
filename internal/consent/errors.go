package consent

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports a catalog with nothing to choose from.
	ErrConfiguration = errors.New("consent: no reporting option enabled")

	// ErrInvalidSelection reports a select on an option that is not enabled.
	ErrInvalidSelection = errors.New("consent: option not enabled")

	// ErrCommitted reports a mutation after the screen was confirmed.
	ErrCommitted = errors.New("consent: already committed")

	// ErrNotPresenting reports an interaction before Present.
	ErrNotPresenting = errors.New("consent: screen is not presenting")
)

// ConfigurationError carries the offending catalog.
type ConfigurationError struct {
	Catalog Catalog
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s (none=%t bug=%t full=%t)", ErrConfiguration,
		e.Catalog.AllowNoReporting, e.Catalog.AllowBugReporting, e.Catalog.AllowFullReporting)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
