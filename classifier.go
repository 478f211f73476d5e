package striter

import (
	"strings"
	"unicode"
)

// Classifier reports whether a rune satisfies a caller-chosen property.
// The scanning engine treats a classifier as a pure function: it is
// called at most once per rune, in left-to-right source order, and its
// verdict for a given rune must not change between calls. A classifier
// that panics propagates the panic out of the Next call that invoked it;
// the iterator is then in an unspecified but non-corrupting state and
// must be discarded.
type Classifier func(r rune) bool

// Not returns a classifier with the inverted verdict.
func (c Classifier) Not() Classifier {
	return func(r rune) bool { return !c(r) }
}

// IsWordRune reports whether r is a letter or a number.
// It is the classifier behind Words.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// AnyOf returns a classifier that is true exactly for the runes in chars.
func AnyOf(chars string) Classifier {
	return func(r rune) bool { return strings.ContainsRune(chars, r) }
}

// InRange returns a classifier that is true for runes in [lo, hi].
func InRange(lo, hi rune) Classifier {
	return func(r rune) bool { return lo <= r && r <= hi }
}

// InTable returns a classifier that is true for runes in the given
// Unicode range table, such as unicode.Latin or unicode.Nd.
func InTable(t *unicode.RangeTable) Classifier {
	return func(r rune) bool { return unicode.Is(t, r) }
}
