// Package config handles loading and validating the bibtidy configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extra-field handling modes.
const (
	ModeDrop = "drop"
	ModeHide = "hide"
	ModeOff  = ""
)

// Fingerprint timing for duplicate title detection.
const (
	FingerprintRaw        = "raw"
	FingerprintNormalized = "normalized"
)

// HiddenPrefix is prepended to the name of hidden extra fields.
const HiddenPrefix = "HIDE"

// ErrMissingConfig is returned when the configuration file does not exist.
var ErrMissingConfig = errors.New("configuration not found")

// ErrInvalidConfig is returned when a configuration value is missing or invalid.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full set of options for one run. It is not modified after Load.
type Config struct {
	Input               string `yaml:"input"`
	Output              string `yaml:"output"`
	Encoding            string `yaml:"encoding"`
	IgnoreDuplicateKeys bool   `yaml:"ignore_duplicate_keys"`
	LogLevel            string `yaml:"log_level"`

	Venue      VenueConfig      `yaml:"venue"`
	Title      TitleConfig      `yaml:"title"`
	Duplicates DuplicatesConfig `yaml:"duplicates"`
	Authors    AuthorsConfig    `yaml:"authors"`
	MiscURL    MiscURLConfig    `yaml:"misc_url"`
	Fields     FieldsConfig     `yaml:"fields"`
	Citations  CitationsConfig  `yaml:"citations"`
	TextOutput TextOutputConfig `yaml:"text_output"`
}

// VenueRule maps a case-insensitive pattern to a canonical venue name.
type VenueRule struct {
	Pattern string `yaml:"pattern"`
	Name    string `yaml:"name"`
}

// VenueConfig controls venue substitution. Rules are tried in order and the
// first match wins.
type VenueConfig struct {
	Fields []string    `yaml:"fields"`
	Rules  []VenueRule `yaml:"rules"`
}

// TitleConfig toggles the title normalization sub-steps.
type TitleConfig struct {
	FixEscaping bool     `yaml:"fix_escaping"`
	StripCaps   bool     `yaml:"strip_caps"`
	CamelCaps   bool     `yaml:"camel_caps"`
	ColonCaps   bool     `yaml:"colon_caps"`
	Caps        []string `yaml:"caps"` // Phrases whose casing is preserved
}

// DuplicatesConfig controls duplicate title detection.
type DuplicatesConfig struct {
	Fingerprint string `yaml:"fingerprint"` // raw or normalized
	Strip       bool   `yaml:"strip"`
	FoldAccents bool   `yaml:"fold_accents"`
}

// AuthorsConfig controls "Last, First" reordering.
type AuthorsConfig struct {
	Reorder bool     `yaml:"reorder"`
	Fields  []string `yaml:"fields"`
}

// MiscURLConfig controls URL consolidation for @misc entries.
type MiscURLConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Candidates     []string `yaml:"candidates"` // In priority order
	Destination    string   `yaml:"destination"`
	WrappedPattern string   `yaml:"wrapped_pattern"`
}

// FieldsConfig controls extra-field pruning and field ordering.
type FieldsConfig struct {
	Mode      string   `yaml:"mode"`  // drop, hide or empty
	Order     []string `yaml:"order"` // Keep-list and canonical order
	Extra     []string `yaml:"extra"` // Always treated as extra
	Sort      bool     `yaml:"sort"`
	StripURLs bool     `yaml:"strip_urls"` // Strip URL fields from non-misc entries
}

// CitationsConfig lists the LaTeX sources used to filter entries.
type CitationsConfig struct {
	Sources []string `yaml:"sources"`
	Pattern string   `yaml:"pattern"` // One capture group holding comma-separated keys
}

// TextOutputConfig controls the optional plain-text rendering.
type TextOutputConfig struct {
	Path     string `yaml:"path"`
	Template string `yaml:"template"`
}

// Load reads configuration from the YAML file at path. Options absent from
// the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing config: %v", ErrInvalidConfig, err)
	}

	cfg.Input = ExpandPath(cfg.Input)
	cfg.Output = ExpandPath(cfg.Output)
	cfg.TextOutput.Path = ExpandPath(cfg.TextOutput.Path)
	for i, src := range cfg.Citations.Sources {
		cfg.Citations.Sources[i] = ExpandPath(src)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required options and enumerated values.
// Patterns and templates are checked when they are compiled.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("%w: input is required", ErrInvalidConfig)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output is required", ErrInvalidConfig)
	}
	if c.Encoding == "" {
		return fmt.Errorf("%w: encoding must not be empty", ErrInvalidConfig)
	}

	switch c.Fields.Mode {
	case ModeDrop, ModeHide, ModeOff:
	default:
		return fmt.Errorf("%w: fields.mode %q (valid: drop, hide or empty)", ErrInvalidConfig, c.Fields.Mode)
	}

	switch c.Duplicates.Fingerprint {
	case FingerprintRaw, FingerprintNormalized:
	default:
		return fmt.Errorf("%w: duplicates.fingerprint %q (valid: raw, normalized)", ErrInvalidConfig, c.Duplicates.Fingerprint)
	}

	for i, r := range c.Venue.Rules {
		if r.Pattern == "" || r.Name == "" {
			return fmt.Errorf("%w: venue rule %d must have both 'pattern' and 'name'", ErrInvalidConfig, i+1)
		}
	}

	if c.MiscURL.Enabled {
		if len(c.MiscURL.Candidates) == 0 {
			return fmt.Errorf("%w: misc_url.candidates must not be empty", ErrInvalidConfig)
		}
		if c.MiscURL.Destination == "" {
			return fmt.Errorf("%w: misc_url.destination is required", ErrInvalidConfig)
		}
	}

	if len(c.Citations.Sources) > 0 && c.Citations.Pattern == "" {
		return fmt.Errorf("%w: citations.pattern is required when sources are set", ErrInvalidConfig)
	}

	if c.TextOutput.Path != "" && strings.TrimSpace(c.TextOutput.Template) == "" {
		return fmt.Errorf("%w: text_output.template is required when text_output.path is set", ErrInvalidConfig)
	}

	return nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
