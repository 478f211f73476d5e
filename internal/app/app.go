// Package app wires settings, classifiers, scanning, and output into
// the striter command. It owns the application lifecycle: one-shot
// scans, watch-mode rescans, and the interactive preview.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	striter "github.com/martingallagher/str-iter"
	"github.com/martingallagher/str-iter/internal/config"
	"github.com/martingallagher/str-iter/internal/luarule"
	"github.com/martingallagher/str-iter/internal/rules"
	"github.com/martingallagher/str-iter/internal/watch"
)

// Options configures the application. String and bool fields mirror
// command-line flags; a field only overrides the settings file when
// its flag name appears in Explicit.
type Options struct {
	// ConfigPath is the path to the settings file. Empty means the
	// default location, where a missing file is fine.
	ConfigPath string

	// Mode, Class, Rules, Rule, Lua, Format, Offsets, Encoding, and
	// LogLevel mirror their settings-file counterparts.
	Mode     string
	Class    string
	Rules    string
	Rule     string
	Lua      string
	Format   string
	Offsets  bool
	Encoding string
	LogLevel string

	// Sep is the separator for split mode.
	Sep string

	// All keeps empty segments in split mode.
	All bool

	// Only filters spans and runes by verdict: "", "true", or "false".
	Only string

	// Watch rescans files on change.
	Watch bool

	// Preview opens the interactive viewer.
	Preview bool

	// Files are the sources to scan. Empty means stdin.
	Files []string

	// Explicit names the flags that were set on the command line.
	Explicit map[string]bool

	// Stdin, Stdout, and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// isSet reports whether the named flag was given explicitly.
func (o Options) isSet(name string) bool {
	return o.Explicit[name]
}

// Application coordinates one striter invocation.
type Application struct {
	opts Options
	cfg  config.Config

	logger   *Logger
	classify striter.Classifier

	// pred is set when the classifier is a Lua predicate; predErr
	// exposes its sticky error after a scan.
	pred    *luarule.Predicate
	predErr func() error

	only *bool
	out  *Writer

	stdin io.Reader

	mu      sync.Mutex
	watcher *watch.Debouncer

	done      chan struct{}
	closeOnce sync.Once
}

// New creates an application from command-line options. Settings are
// resolved in precedence order: defaults, settings file, environment,
// explicit flags.
func New(opts Options) (*Application, error) {
	var cfg config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	if opts.isSet("mode") {
		cfg.Mode = opts.Mode
	}
	if opts.isSet("class") {
		cfg.Class = opts.Class
	}
	if opts.isSet("rules") {
		cfg.Rules = opts.Rules
	}
	if opts.isSet("rule") {
		cfg.Rule = opts.Rule
	}
	if opts.isSet("lua") {
		cfg.Lua = opts.Lua
	}
	if opts.isSet("format") {
		cfg.Format = opts.Format
	}
	if opts.isSet("offsets") {
		cfg.Offsets = opts.Offsets
	}
	if opts.isSet("encoding") {
		cfg.Encoding = opts.Encoding
	}
	if opts.isSet("log-level") {
		cfg.LogLevel = opts.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Watch && opts.Preview {
		return nil, errors.New("-watch and -preview are mutually exclusive")
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	logCfg := DefaultLoggerConfig()
	logCfg.Level = ParseLogLevel(cfg.LogLevel)
	logCfg.Output = stderr

	app := &Application{
		opts:   opts,
		cfg:    cfg,
		stdin:  stdin,
		out:    NewWriter(stdout, cfg.Format, cfg.Offsets),
		done:   make(chan struct{}),
		logger: NewLogger(logCfg),
	}

	if app.only, err = parseOnly(opts.Only); err != nil {
		return nil, err
	}
	if err := app.buildClassifier(); err != nil {
		return nil, err
	}

	return app, nil
}

// parseOnly parses the -only flag value.
func parseOnly(s string) (*bool, error) {
	switch s {
	case "":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("invalid -only value %q (must be true or false)", s)
	}
}

// buildClassifier resolves the classifier sources in precedence order:
// Lua predicate, rule file, built-in class.
func (app *Application) buildClassifier() error {
	cfg := app.cfg

	if cfg.Lua != "" && cfg.Rules != "" {
		return errors.New("choose one of -lua or -rules")
	}
	if app.opts.isSet("class") && (cfg.Lua != "" || cfg.Rules != "") {
		return errors.New("-class conflicts with -rules and -lua")
	}

	switch {
	case cfg.Lua != "":
		pred, err := luarule.Load(cfg.Lua)
		if err != nil {
			return err
		}
		app.pred = pred
		app.predErr = pred.Err
		app.classify = pred.Classifier()

	case cfg.Rules != "":
		if cfg.Rule == "" {
			return errors.New("-rule is required with -rules")
		}
		f, err := rules.Load(cfg.Rules)
		if err != nil {
			return err
		}
		classify, err := f.Compile(cfg.Rule)
		if err != nil {
			return err
		}
		app.classify = classify

	default:
		if cfg.Rule != "" {
			return errors.New("-rule requires -rules")
		}
		classify, err := BuiltinClassifier(cfg.Class)
		if err != nil {
			return err
		}
		app.classify = classify
	}

	return nil
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Run executes the configured operation and blocks until it finishes.
func (app *Application) Run() error {
	switch {
	case app.opts.Preview:
		return app.runPreview()
	case app.opts.Watch:
		return app.runWatch()
	default:
		return app.runOnce()
	}
}

// Close releases resources and unblocks a running watch loop.
// Close is idempotent and safe to call from a signal handler.
func (app *Application) Close() error {
	app.closeOnce.Do(func() {
		close(app.done)

		app.mu.Lock()
		w := app.watcher
		app.watcher = nil
		app.mu.Unlock()
		if w != nil {
			_ = w.Close()
		}

		if app.pred != nil {
			_ = app.pred.Close()
		}
	})
	return nil
}
