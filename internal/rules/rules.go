// Package rules compiles YAML rule files into classifiers.
//
// A rule file names one or more rules. Each rule describes a set of
// code points as any combination of literal characters, inclusive
// ranges, Unicode general categories, and Unicode scripts; a rune
// matches when it is in any of them. Rules compile to a
// striter.Classifier backed by a single merged range table.
package rules

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/rangetable"
	"gopkg.in/yaml.v3"

	striter "github.com/martingallagher/str-iter"
)

// Version is the rule file format version this package reads.
const Version = 1

var (
	// ErrNoRules is returned when a rule file defines no rules.
	ErrNoRules = errors.New("rule file defines no rules")

	// ErrUnknownRule is returned when a named rule does not exist.
	ErrUnknownRule = errors.New("unknown rule")

	// ErrDuplicateRule is returned when two rules share a name.
	ErrDuplicateRule = errors.New("duplicate rule name")

	// ErrEmptyRule is returned when a rule describes no code points.
	ErrEmptyRule = errors.New("rule matches no code points")

	// ErrVersion is returned for rule files written for a newer format.
	ErrVersion = errors.New("unsupported rule file version")
)

// File is a parsed rule file.
type File struct {
	Version int    `yaml:"version"`
	Rules   []Rule `yaml:"rules"`

	byName map[string]*Rule
}

// Rule describes one named classifier.
type Rule struct {
	// Name identifies the rule within its file.
	Name string `yaml:"name"`

	// Description is free-form documentation.
	Description string `yaml:"description"`

	// Chars lists literal matching characters.
	Chars string `yaml:"chars"`

	// Ranges lists inclusive code point ranges.
	Ranges []Range `yaml:"ranges"`

	// Categories lists Unicode general categories (L, Lu, Nd, ...).
	Categories []string `yaml:"categories"`

	// Scripts lists Unicode scripts (Greek, Han, ...).
	Scripts []string `yaml:"scripts"`

	// Invert negates the compiled classifier.
	Invert bool `yaml:"invert"`
}

// Range is an inclusive code point range. Endpoints are either a
// single literal character or U+XXXX notation.
type Range struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Load reads and parses a rule file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rule file %s: %w", path, err)
	}
	return f, nil
}

// Parse parses rule file data.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	// Version 0 means the field was omitted; accept it as current.
	if f.Version != 0 && f.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, f.Version)
	}
	if len(f.Rules) == 0 {
		return nil, ErrNoRules
	}

	f.byName = make(map[string]*Rule, len(f.Rules))
	for i := range f.Rules {
		r := &f.Rules[i]
		if r.Name == "" {
			return nil, fmt.Errorf("rule %d has no name", i)
		}
		if _, exists := f.byName[r.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRule, r.Name)
		}
		f.byName[r.Name] = r
	}

	return &f, nil
}

// Names returns the rule names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.byName))
	for name := range f.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rule returns the named rule.
func (f *File) Rule(name string) (*Rule, error) {
	r, ok := f.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
	return r, nil
}

// Compile compiles the named rule into a classifier.
func (f *File) Compile(name string) (striter.Classifier, error) {
	r, err := f.Rule(name)
	if err != nil {
		return nil, err
	}
	return r.Compile()
}

// Compile builds the classifier for a rule. The rule's character
// sources are merged into one range table; membership is a table
// lookup per rune.
func (r *Rule) Compile() (striter.Classifier, error) {
	var tables []*unicode.RangeTable

	if r.Chars != "" {
		tables = append(tables, rangetable.New([]rune(r.Chars)...))
	}

	for _, rng := range r.Ranges {
		lo, err := parseCodePoint(rng.From)
		if err != nil {
			return nil, fmt.Errorf("rule %q: range from: %w", r.Name, err)
		}
		hi, err := parseCodePoint(rng.To)
		if err != nil {
			return nil, fmt.Errorf("rule %q: range to: %w", r.Name, err)
		}
		if lo > hi {
			return nil, fmt.Errorf("rule %q: range %s..%s is inverted", r.Name, rng.From, rng.To)
		}
		tables = append(tables, rangeTable(lo, hi))
	}

	for _, name := range r.Categories {
		table, ok := unicode.Categories[name]
		if !ok {
			return nil, fmt.Errorf("rule %q: unknown category %q", r.Name, name)
		}
		tables = append(tables, table)
	}

	for _, name := range r.Scripts {
		table, ok := unicode.Scripts[name]
		if !ok {
			return nil, fmt.Errorf("rule %q: unknown script %q", r.Name, name)
		}
		tables = append(tables, table)
	}

	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyRule, r.Name)
	}

	set := runes.In(rangetable.Merge(tables...))
	classify := striter.Classifier(set.Contains)
	if r.Invert {
		classify = classify.Not()
	}
	return classify, nil
}

// parseCodePoint parses a range endpoint: U+XXXX notation or a single
// literal character.
func parseCodePoint(s string) (rune, error) {
	if s == "" {
		return 0, errors.New("empty code point")
	}

	if strings.HasPrefix(s, "U+") || strings.HasPrefix(s, "u+") {
		n, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid code point %q", s)
		}
		r := rune(n)
		if !utf8.ValidRune(r) {
			return 0, fmt.Errorf("code point %q out of range", s)
		}
		return r, nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return 0, fmt.Errorf("invalid code point %q", s)
	}
	if size != len(s) {
		return 0, fmt.Errorf("code point %q is not a single character", s)
	}
	return r, nil
}

// rangeTable builds a table for one inclusive range, splitting across
// the 16-bit boundary as the unicode package requires.
func rangeTable(lo, hi rune) *unicode.RangeTable {
	const max16 = 0xFFFF

	rt := &unicode.RangeTable{}
	if lo <= max16 {
		hi16 := hi
		if hi16 > max16 {
			hi16 = max16
		}
		rt.R16 = []unicode.Range16{{Lo: uint16(lo), Hi: uint16(hi16), Stride: 1}}
		if hi16 <= unicode.MaxLatin1 {
			rt.LatinOffset = 1
		}
	}
	if hi > max16 {
		lo32 := lo
		if lo32 <= max16 {
			lo32 = max16 + 1
		}
		rt.R32 = []unicode.Range32{{Lo: uint32(lo32), Hi: uint32(hi), Stride: 1}}
	}
	return rt
}
