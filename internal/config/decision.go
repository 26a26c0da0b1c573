package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sprite-ai/consent/internal/consent"
	"github.com/sprite-ai/consent/internal/model"
)

// Decision is the committed choice as stored by the CLI host.
type Decision struct {
	Option      model.ReportingOption `toml:"option"`
	CommittedAt time.Time             `toml:"committed-at"`
}

// DecisionFromEvent converts a confirmation into a storable decision.
func DecisionFromEvent(ev consent.ConfirmationEvent) Decision {
	return Decision{Option: ev.Option, CommittedAt: ev.CommittedAt.UTC().Truncate(time.Second)}
}

// SaveDecision writes d to path.
func SaveDecision(path string, d Decision) error {
	data, err := toml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode decision: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create decision directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write decision: %w", err)
	}
	return nil
}

// LoadDecision reads a stored decision. ok is false when none exists.
func LoadDecision(path string) (d Decision, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Decision{}, false, nil
		}
		return Decision{}, false, fmt.Errorf("failed to read decision: %w", err)
	}
	if err := toml.Unmarshal(data, &d); err != nil {
		return Decision{}, false, fmt.Errorf("failed to parse decision: %w", err)
	}
	return d, true, nil
}
