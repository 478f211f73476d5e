// Package config loads striter settings from a TOML file with
// STRITER_-prefixed environment overrides.
//
// Precedence, lowest to highest: built-in defaults, settings file,
// environment, command-line flags (applied by the caller).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds application settings.
type Config struct {
	// Mode selects the scan mode: spans, runes, words, graphemes, split.
	Mode string `toml:"mode"`

	// Format selects the output format: text or json.
	Format string `toml:"format"`

	// Offsets includes byte offsets in text output.
	Offsets bool `toml:"offsets"`

	// Class names a built-in classifier.
	Class string `toml:"class"`

	// Rules is the path to a YAML rule file.
	Rules string `toml:"rules"`

	// Rule names the rule to use from the rule file.
	Rule string `toml:"rule"`

	// Lua is the path to a Lua classifier file.
	Lua string `toml:"lua"`

	// Encoding is the IANA name of the input encoding. Empty means UTF-8.
	Encoding string `toml:"encoding"`

	// LogLevel sets logging verbosity: debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	Watch   WatchConfig   `toml:"watch"`
	Preview PreviewConfig `toml:"preview"`
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	// DebounceMS coalesces rapid file changes within this window.
	DebounceMS int `toml:"debounce_ms"`
}

// PreviewConfig holds interactive preview settings.
type PreviewConfig struct {
	// MatchColor styles spans whose verdict is true.
	MatchColor string `toml:"match_color"`

	// RestColor styles spans whose verdict is false.
	RestColor string `toml:"rest_color"`

	// CurrentColor highlights the selected span.
	CurrentColor string `toml:"current_color"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Mode:     "spans",
		Format:   "text",
		Class:    "word",
		LogLevel: "info",
		Watch: WatchConfig{
			DebounceMS: 200,
		},
		Preview: PreviewConfig{
			MatchColor:   "green",
			RestColor:    "gray",
			CurrentColor: "yellow",
		},
	}
}

// DefaultPath returns the default settings file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "striter", "striter.toml")
}

// Load reads settings from an explicitly named file. A missing file is
// an error; use LoadDefault when the file is optional.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading settings file %s: %w", path, err)
	}
	if err := parse(&cfg, path, data); err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDefault reads settings from the default location. A missing file
// is not an error.
func LoadDefault() (Config, error) {
	cfg := Default()
	path := DefaultPath()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No settings file, use defaults.
		case err != nil:
			return cfg, fmt.Errorf("reading settings file %s: %w", path, err)
		default:
			if err := parse(&cfg, path, data); err != nil {
				return cfg, err
			}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parse unmarshals TOML data over cfg.
func parse(cfg *Config, source string, data []byte) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
	}
	return nil
}

// applyEnv overrides settings from STRITER_-prefixed variables.
func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString("STRITER_MODE", &cfg.Mode)
	setString("STRITER_FORMAT", &cfg.Format)
	setString("STRITER_CLASS", &cfg.Class)
	setString("STRITER_RULES", &cfg.Rules)
	setString("STRITER_RULE", &cfg.Rule)
	setString("STRITER_LUA", &cfg.Lua)
	setString("STRITER_ENCODING", &cfg.Encoding)
	setString("STRITER_LOG_LEVEL", &cfg.LogLevel)

	if v, ok := os.LookupEnv("STRITER_OFFSETS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STRITER_OFFSETS: %w", err)
		}
		cfg.Offsets = b
	}
	if v, ok := os.LookupEnv("STRITER_DEBOUNCE_MS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STRITER_DEBOUNCE_MS: %w", err)
		}
		cfg.Watch.DebounceMS = n
	}

	return nil
}

// Debounce returns the watch debounce window as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Mode {
	case "spans", "runes", "words", "graphemes", "split":
	default:
		return fmt.Errorf("invalid mode %q (must be spans, runes, words, graphemes, or split)", c.Mode)
	}

	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (must be text or json)", c.Format)
	}

	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("invalid debounce %d (must be >= 0)", c.Watch.DebounceMS)
	}

	return nil
}

// ParseError represents an error while parsing a settings file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
