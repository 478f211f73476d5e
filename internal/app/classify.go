package app

import (
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	striter "github.com/martingallagher/str-iter"
)

// builtins maps -class names to classifiers.
var builtins = map[string]striter.Classifier{
	"word":   striter.IsWordRune,
	"letter": unicode.IsLetter,
	"digit":  unicode.IsDigit,
	"number": unicode.IsNumber,
	"space":  unicode.IsSpace,
	"punct":  unicode.IsPunct,
	"upper":  unicode.IsUpper,
	"lower":  unicode.IsLower,
	"ascii":  func(r rune) bool { return r < utf8.RuneSelf },
}

// BuiltinClassifier returns the named built-in classifier.
func BuiltinClassifier(name string) (striter.Classifier, error) {
	classify, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown classifier %q (available: %v)", name, BuiltinNames())
	}
	return classify, nil
}

// BuiltinNames returns the built-in classifier names in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
