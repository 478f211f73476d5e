// Package main is the entry point for the striter scanner.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/martingallagher/str-iter/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Close()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Close()
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() app.Options {
	var opts app.Options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to settings file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to settings file (shorthand)")
	flag.StringVar(&opts.Mode, "mode", "spans", "Scan mode (spans, runes, words, graphemes, split)")
	flag.StringVar(&opts.Mode, "m", "spans", "Scan mode (shorthand)")
	flag.StringVar(&opts.Class, "class", "word", "Built-in classifier name")
	flag.StringVar(&opts.Rules, "rules", "", "Path to a YAML rules file")
	flag.StringVar(&opts.Rule, "rule", "", "Rule name to compile from the rules file")
	flag.StringVar(&opts.Lua, "lua", "", "Path to a Lua classifier script")
	flag.StringVar(&opts.Sep, "sep", "", "Separator for split mode (empty splits per rune)")
	flag.BoolVar(&opts.All, "all", false, "Keep empty segments in split mode")
	flag.StringVar(&opts.Only, "only", "", "Emit only one verdict (true or false)")
	flag.StringVar(&opts.Format, "format", "text", "Output format (text, json)")
	flag.BoolVar(&opts.Offsets, "offsets", false, "Include byte offsets in text output")
	flag.StringVar(&opts.Encoding, "encoding", "", "Decode input from an IANA-named encoding")
	flag.BoolVar(&opts.Watch, "watch", false, "Rescan files when they change")
	flag.BoolVar(&opts.Watch, "w", false, "Rescan files when they change (shorthand)")
	flag.BoolVar(&opts.Preview, "preview", false, "Open the interactive viewer")
	flag.BoolVar(&opts.Preview, "p", false, "Open the interactive viewer (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "striter - classifier-driven text scanner\n\n")
		fmt.Fprintf(os.Stderr, "Usage: striter [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  striter file.txt                      Partition with the word classifier\n")
		fmt.Fprintf(os.Stderr, "  cat file.txt | striter -mode words    Emit the words from stdin\n")
		fmt.Fprintf(os.Stderr, "  striter -mode split -sep , data.csv   Split on a separator\n")
		fmt.Fprintf(os.Stderr, "  striter -rules r.yaml -rule vowels f  Scan with a rule file\n")
		fmt.Fprintf(os.Stderr, "  striter -lua classify.lua -format json f\n")
		fmt.Fprintf(os.Stderr, "  striter -w file.txt                   Rescan on change\n")
		fmt.Fprintf(os.Stderr, "  striter -p file.txt                   Interactive viewer\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("striter %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Settings from the file and environment only yield to flags the
	// user actually typed, so record which those were. Shorthands
	// count as their long form.
	aliases := map[string]string{
		"c": "config",
		"m": "mode",
		"w": "watch",
		"p": "preview",
	}
	opts.Explicit = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := aliases[name]; ok {
			name = long
		}
		opts.Explicit[name] = true
	})

	// Remaining arguments are the files to scan
	opts.Files = flag.Args()

	return opts
}
