package striter

import "strings"

// SubstrIterator walks a source string once, emitting the substrings
// that appear between occurrences of a literal separator. By default
// empty values are skipped, so adjacent, leading, and trailing
// separators yield nothing; All switches to full split semantics. An
// empty separator degenerates to per-rune emission.
type SubstrIterator struct {
	src string
	sep string
	pos int // Byte offset of the next unconsumed byte

	emitAll bool
	done    bool

	span Span
	err  error
}

// Substrings returns an iterator over the substrings of src delimited
// by the literal sep. Every emitted value re-slices src; nothing is
// copied.
func Substrings(src, sep string) *SubstrIterator {
	return &SubstrIterator{src: src, sep: sep}
}

// All switches the iterator to full split semantics, emitting empty
// values the way strings.Split does, and returns the iterator for
// chaining. Call it before the first Next.
func (it *SubstrIterator) All() *SubstrIterator {
	it.emitAll = true
	return it
}

// Next advances to the next substring.
// It returns false once the source is exhausted or, in per-rune mode,
// decoding fails; check Err to distinguish the two.
func (it *SubstrIterator) Next() bool {
	if it.err != nil || it.done {
		return false
	}
	if it.sep == "" {
		return it.nextRune()
	}

	for {
		i := strings.Index(it.src[it.pos:], it.sep)
		if i < 0 {
			start := it.pos
			it.pos = len(it.src)
			it.done = true
			if !it.emitAll && start == len(it.src) {
				return false
			}
			it.span = Span{Start: start, End: len(it.src)}
			return true
		}

		start := it.pos
		end := start + i
		it.pos = end + len(it.sep)
		if !it.emitAll && start == end {
			continue
		}
		it.span = Span{Start: start, End: end}
		return true
	}
}

// nextRune emits the next rune as a one-rune substring.
func (it *SubstrIterator) nextRune() bool {
	if it.pos >= len(it.src) {
		return false
	}
	_, size, err := decodeRune(it.src, it.pos)
	if err != nil {
		it.err = err
		return false
	}
	it.span = Span{Start: it.pos, End: it.pos + size}
	it.pos += size
	return true
}

// Text returns the current substring.
// The result shares the source's backing storage; nothing is copied.
func (it *SubstrIterator) Text() string {
	return it.src[it.span.Start:it.span.End]
}

// Span returns the current substring's byte range.
func (it *SubstrIterator) Span() Span {
	return it.span
}

// Err returns the decoding failure that halted iteration, if any.
// Only per-rune mode (empty separator) decodes, so Err is always nil
// when a separator was given.
func (it *SubstrIterator) Err() error {
	return it.err
}

// Reset returns the iterator to the start of the source, clearing any
// sticky decode error. The emission mode is kept.
func (it *SubstrIterator) Reset() {
	it.pos = 0
	it.done = false
	it.span = Span{}
	it.err = nil
}

// Count consumes the iterator and returns the number of remaining
// substrings.
func (it *SubstrIterator) Count() int {
	n := 0
	for it.Next() {
		n++
	}
	return n
}

// ForEach consumes the iterator, calling fn with each remaining
// substring.
func (it *SubstrIterator) ForEach(fn func(s string)) {
	for it.Next() {
		fn(it.Text())
	}
}
