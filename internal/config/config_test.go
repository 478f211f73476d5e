package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeSettings writes a settings file into a temp dir and returns its path.
func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "striter.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing settings file: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Mode != "spans" {
		t.Errorf("Mode = %q, want %q", cfg.Mode, "spans")
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %q, want %q", cfg.Format, "text")
	}
	if cfg.Class != "word" {
		t.Errorf("Class = %q, want %q", cfg.Class, "word")
	}
	if cfg.Watch.DebounceMS != 200 {
		t.Errorf("DebounceMS = %d, want 200", cfg.Watch.DebounceMS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeSettings(t, `
mode = "runes"
format = "json"
offsets = true
rules = "rules.yaml"
rule = "emoticon"

[watch]
debounce_ms = 50

[preview]
match_color = "blue"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Mode != "runes" {
		t.Errorf("Mode = %q, want %q", cfg.Mode, "runes")
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
	if !cfg.Offsets {
		t.Error("Offsets = false, want true")
	}
	if cfg.Rules != "rules.yaml" || cfg.Rule != "emoticon" {
		t.Errorf("Rules/Rule = %q/%q", cfg.Rules, cfg.Rule)
	}
	if cfg.Watch.DebounceMS != 50 {
		t.Errorf("DebounceMS = %d, want 50", cfg.Watch.DebounceMS)
	}
	if cfg.Preview.MatchColor != "blue" {
		t.Errorf("MatchColor = %q, want %q", cfg.Preview.MatchColor, "blue")
	}

	// Unset values keep their defaults.
	if cfg.Class != "word" {
		t.Errorf("Class = %q, want default %q", cfg.Class, "word")
	}
	if cfg.Preview.CurrentColor != "yellow" {
		t.Errorf("CurrentColor = %q, want default %q", cfg.Preview.CurrentColor, "yellow")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "gone.toml")); err == nil {
		t.Error("Load() with missing explicit file should fail")
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeSettings(t, "mode = [broken")

	_, err := Load(path)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Load() error = %T, want *ParseError", err)
	}
	if parseErr.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", parseErr.Path, path)
	}
}

func TestLoadDefaultMissingFile(t *testing.T) {
	// Point the user config dir at an empty temp dir.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	if cfg.Mode != "spans" {
		t.Errorf("Mode = %q, want default %q", cfg.Mode, "spans")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeSettings(t, `mode = "runes"`)
	t.Setenv("STRITER_MODE", "words")
	t.Setenv("STRITER_OFFSETS", "true")
	t.Setenv("STRITER_DEBOUNCE_MS", "75")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Mode != "words" {
		t.Errorf("Mode = %q, want env override %q", cfg.Mode, "words")
	}
	if !cfg.Offsets {
		t.Error("Offsets = false, want env override true")
	}
	if cfg.Watch.DebounceMS != 75 {
		t.Errorf("DebounceMS = %d, want env override 75", cfg.Watch.DebounceMS)
	}
}

func TestEnvInvalidValues(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	t.Setenv("STRITER_OFFSETS", "definitely")
	if _, err := LoadDefault(); err == nil {
		t.Error("invalid STRITER_OFFSETS should fail")
	}
	t.Setenv("STRITER_OFFSETS", "true")

	t.Setenv("STRITER_DEBOUNCE_MS", "soon")
	if _, err := LoadDefault(); err == nil {
		t.Error("invalid STRITER_DEBOUNCE_MS should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"split mode", func(c *Config) { c.Mode = "split" }, false},
		{"bad mode", func(c *Config) { c.Mode = "sideways" }, true},
		{"bad format", func(c *Config) { c.Format = "xml" }, true},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMS = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDebounce(t *testing.T) {
	cfg := Default()
	cfg.Watch.DebounceMS = 150
	if got := cfg.Debounce(); got != 150*time.Millisecond {
		t.Errorf("Debounce() = %v, want 150ms", got)
	}
}
