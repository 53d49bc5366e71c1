package bufyaml

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when no settings file exists in the
// directory chain.
var ErrConfigNotFound = errors.New("no .bufyaml.yaml found")

// Config represents the .bufyaml.yaml tool settings file. This is the
// tooling's own configuration, not the buf config being edited.
type Config struct {
	// Validator configures the external config validator binary.
	Validator ValidatorConfig `yaml:"validator,omitempty"`

	// Watch configures watch mode.
	Watch WatchConfig `yaml:"watch,omitempty"`

	// Completion configures completion behavior.
	Completion CompletionConfig `yaml:"completion,omitempty"`
}

// ValidatorConfig holds settings for the external validator process.
type ValidatorConfig struct {
	// Binary to invoke (e.g., "buf"). Empty disables validation.
	Bin string `yaml:"bin,omitempty"`

	// Extra arguments placed before the config path.
	Args []string `yaml:"args,omitempty"`

	// Per-invocation timeout in milliseconds.
	TimeoutMS int `yaml:"timeout_ms,omitempty"`

	// Debounce window in milliseconds for the result cache.
	DebounceMS int `yaml:"debounce_ms,omitempty"`

	// Disabled turns validation off even when a binary is configured.
	Disabled bool `yaml:"disabled,omitempty"`
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	// Debounce window in milliseconds between a write event and
	// revalidation.
	DebounceMS int `yaml:"debounce_ms,omitempty"`
}

// CompletionConfig holds settings for completion behavior.
type CompletionConfig struct {
	// Docs controls whether completion items carry documentation.
	// Defaults to on; explicit false disables.
	Docs *bool `yaml:"docs,omitempty"`
}

// Default timings, used when the config leaves them zero.
const (
	DefaultValidatorTimeout  = 10 * time.Second
	DefaultValidatorDebounce = 750 * time.Millisecond
	DefaultWatchDebounce     = 200 * time.Millisecond
)

// Timeout returns the validator timeout, applying the default.
func (v ValidatorConfig) Timeout() time.Duration {
	if v.TimeoutMS <= 0 {
		return DefaultValidatorTimeout
	}

	return time.Duration(v.TimeoutMS) * time.Millisecond
}

// Debounce returns the validator debounce window, applying the default.
func (v ValidatorConfig) Debounce() time.Duration {
	if v.DebounceMS <= 0 {
		return DefaultValidatorDebounce
	}

	return time.Duration(v.DebounceMS) * time.Millisecond
}

// Enabled reports whether a validator is configured and not disabled.
func (v ValidatorConfig) Enabled() bool {
	return v.Bin != "" && !v.Disabled
}

// Debounce returns the watch debounce window, applying the default.
func (w WatchConfig) Debounce() time.Duration {
	if w.DebounceMS <= 0 {
		return DefaultWatchDebounce
	}

	return time.Duration(w.DebounceMS) * time.Millisecond
}

// DocsEnabled reports whether completion documentation is on.
func (c CompletionConfig) DocsEnabled() bool {
	return c.Docs == nil || *c.Docs
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".bufyaml.yaml", ".bufyaml.yml", "bufyaml.yaml", "bufyaml.yml"}

// LoadConfig finds and loads the nearest .bufyaml.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a settings file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads settings from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
