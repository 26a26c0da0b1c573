// Package config loads and saves the user configuration for consent.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/sprite-ai/consent/internal/consent"
	"github.com/sprite-ai/consent/internal/locale"
	"github.com/sprite-ai/consent/internal/model"
)

const (
	// AppDir is the per-user directory name.
	AppDir = "consent"
	// ConfigFile is the configuration file name inside AppDir.
	ConfigFile = "config.toml"
	// DecisionFile is the default name of the stored decision.
	DecisionFile = "decision.toml"
	// DefaultWideWidth is the terminal width at which the screen is treated
	// as a large device.
	DefaultWideWidth = 100
)

// Config represents the user configuration.
type Config struct {
	Options      consent.Catalog `toml:"options"`
	Presentation Presentation    `toml:"presentation"`
	Consent      Consent         `toml:"consent"`
	Server       Server          `toml:"server"`
}

// Presentation controls layout resolution.
type Presentation struct {
	Mode               model.PresentationMode `toml:"mode"`
	HeightThreshold    int                    `toml:"height-threshold"`
	InclusiveThreshold bool                   `toml:"inclusive-threshold"`
	// WideWidth is the column count from which the terminal counts as a
	// large device.
	WideWidth int `toml:"wide-width"`
}

// Consent holds the defaults of a consent session.
type Consent struct {
	Preferred        model.ReportingOption `toml:"preferred"`
	PrivacyPolicyURL string                `toml:"privacy-policy-url"`
	// Locale is the path of a YAML string bundle. Empty uses English.
	Locale string `toml:"locale,omitempty"`
	// DecisionFile overrides where the committed choice is stored.
	DecisionFile string `toml:"decision-file,omitempty"`
}

// Server configures `consent serve`.
type Server struct {
	Addr string `toml:"addr"`
	Port int    `toml:"port"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Options: consent.DefaultCatalog(),
		Presentation: Presentation{
			Mode:            model.Automatic,
			HeightThreshold: consent.DefaultHeightThreshold,
			WideWidth:       DefaultWideWidth,
		},
		Consent: Consent{
			Preferred:        model.FullReporting,
			PrivacyPolicyURL: consent.DefaultPolicyURL,
		},
		Server: Server{
			Addr: "127.0.0.1",
			Port: 6143,
		},
	}
}

// Dir returns the platform-specific configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppDir)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", AppDir)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppDir)
		}
		return filepath.Join(home, AppDir)
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppDir)
		}
		return filepath.Join(home, ".config", AppDir)
	}
}

// DefaultPath returns the path of the user configuration file.
func DefaultPath() string {
	return filepath.Join(Dir(), ConfigFile)
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal encodes cfg as TOML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate reports configuration the screen cannot present.
func (c *Config) Validate() error {
	if c.Options.Empty() {
		return consent.ErrConfiguration
	}
	if c.Presentation.HeightThreshold <= 0 {
		return fmt.Errorf("height-threshold must be positive, got %d", c.Presentation.HeightThreshold)
	}
	if c.Presentation.WideWidth <= 0 {
		return fmt.Errorf("wide-width must be positive, got %d", c.Presentation.WideWidth)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	return nil
}

// Resolver builds the layout resolver described by the configuration.
func (c *Config) Resolver() consent.Resolver {
	return consent.Resolver{
		Threshold: c.Presentation.HeightThreshold,
		Inclusive: c.Presentation.InclusiveThreshold,
	}
}

// DeviceClass classifies a terminal of the given width.
func (c *Config) DeviceClass(width int) model.DeviceClass {
	if width >= c.Presentation.WideWidth {
		return model.DeviceLarge
	}
	return model.DevicePhone
}

// DecisionPath returns where the committed decision is stored.
func (c *Config) DecisionPath() string {
	if c.Consent.DecisionFile != "" {
		return c.Consent.DecisionFile
	}
	return filepath.Join(Dir(), DecisionFile)
}

// ApplyTo pushes the configuration into s. The preferred option only
// takes effect if s has not been presented yet.
//
// Everything that can fail is checked before s is touched, so an error
// leaves the screen as it was.
func (c *Config) ApplyTo(s *consent.Screen) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if s.State() == consent.StateCommitted {
		return consent.ErrCommitted
	}
	strs := locale.Default()
	if c.Consent.Locale != "" {
		b, err := locale.Load(c.Consent.Locale)
		if err != nil {
			return err
		}
		strs = b
	}

	if err := s.ReplaceCatalog(c.Options); err != nil {
		return err
	}
	if err := s.SetMode(c.Presentation.Mode); err != nil {
		return err
	}
	s.SetPreferred(c.Consent.Preferred)
	s.SetResolver(c.Resolver())
	s.SetPolicyURL(c.Consent.PrivacyPolicyURL)
	s.SetStrings(strs)
	return nil
}
