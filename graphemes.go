package striter

import "github.com/rivo/uniseg"

// GraphemeIterator walks a source string once, emitting one span per
// extended grapheme cluster (user-perceived character). Multi-rune
// clusters such as emoji sequences and combining marks stay whole.
type GraphemeIterator struct {
	src   string
	pos   int // Byte offset of the next unconsumed byte
	state int

	span Span
	err  error
}

// Graphemes returns an iterator over the extended grapheme clusters of
// src, segmented per Unicode Standard Annex #29.
func Graphemes(src string) *GraphemeIterator {
	return &GraphemeIterator{src: src, state: -1}
}

// Next advances to the next grapheme cluster.
// It returns false once the source is exhausted or decoding fails;
// check Err to distinguish the two.
func (it *GraphemeIterator) Next() bool {
	if it.err != nil || it.pos >= len(it.src) {
		return false
	}

	cluster, _, _, state := uniseg.FirstGraphemeClusterInString(it.src[it.pos:], it.state)

	// uniseg reads malformed bytes as U+FFFD and keeps segmenting, and
	// GB9b can attach one to a preceding Prepend rune, so a bad byte may
	// sit anywhere in the cluster. Withhold the cluster at the first
	// byte that fails to decode.
	for off, end := it.pos, it.pos+len(cluster); off < end; {
		_, size, err := decodeRune(it.src, off)
		if err != nil {
			it.err = err
			return false
		}
		off += size
	}

	it.state = state
	it.span = Span{Start: it.pos, End: it.pos + len(cluster)}
	it.pos += len(cluster)
	return true
}

// Text returns the current grapheme cluster.
// The result shares the source's backing storage; nothing is copied.
func (it *GraphemeIterator) Text() string {
	return it.src[it.span.Start:it.span.End]
}

// Span returns the current cluster's byte range.
func (it *GraphemeIterator) Span() Span {
	return it.span
}

// Err returns the decoding failure that halted iteration, if any.
func (it *GraphemeIterator) Err() error {
	return it.err
}

// Reset returns the iterator to the start of the source, clearing any
// sticky decode error.
func (it *GraphemeIterator) Reset() {
	it.pos = 0
	it.state = -1
	it.span = Span{}
	it.err = nil
}

// Count consumes the iterator and returns the number of remaining
// clusters.
func (it *GraphemeIterator) Count() int {
	n := 0
	for it.Next() {
		n++
	}
	return n
}

// ForEach consumes the iterator, calling fn with each remaining
// cluster.
func (it *GraphemeIterator) ForEach(fn func(cluster string)) {
	for it.Next() {
		fn(it.Text())
	}
}
