package striter

import "unicode/utf8"

// decodeRune decodes the rune starting at pos in src.
// A malformed sequence yields a *DecodeError carrying pos. No replacement
// character is substituted, so scanning halts at the first bad byte.
func decodeRune(src string, pos int) (rune, int, error) {
	r, size := utf8.DecodeRuneInString(src[pos:])
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, &DecodeError{Offset: pos}
	}
	return r, size, nil
}

// SpanIterator walks a source string once, left to right, emitting the
// maximal runs of consecutive runes that share one classifier verdict.
type SpanIterator struct {
	src      string
	classify Classifier
	pos      int // Byte offset of the next unconsumed rune

	// Lookahead for the rune that terminated the previous run. Caching
	// its size and verdict keeps the classifier at one call per rune.
	pending        bool
	pendingSize    int
	pendingVerdict bool

	// Verdict filter (see Only)
	filtered bool
	want     bool

	span    Span
	verdict bool
	err     error
}

// Spans returns an iterator over the maximal same-verdict runs of src.
// Adjacent spans carry opposite verdicts, and concatenating every span
// in order reconstructs src exactly. An empty src yields no spans.
func Spans(src string, classify Classifier) *SpanIterator {
	return &SpanIterator{src: src, classify: classify}
}

// Only restricts iteration to spans with the given verdict and returns
// the iterator for chaining. Call it before the first Next. The
// reconstruction guarantee applies only to unfiltered iteration.
func (it *SpanIterator) Only(verdict bool) *SpanIterator {
	it.filtered = true
	it.want = verdict
	return it
}

// Next advances to the next span.
// It returns false once the source is exhausted or decoding fails;
// check Err to distinguish the two.
func (it *SpanIterator) Next() bool {
	for {
		if !it.scan() {
			return false
		}
		if !it.filtered || it.verdict == it.want {
			return true
		}
	}
}

// scan advances to the next run regardless of the verdict filter.
func (it *SpanIterator) scan() bool {
	if it.err != nil || it.pos >= len(it.src) {
		return false
	}

	start := it.pos
	var verdict bool
	if it.pending {
		verdict = it.pendingVerdict
		it.pos += it.pendingSize
		it.pending = false
	} else {
		r, size, err := decodeRune(it.src, it.pos)
		if err != nil {
			it.err = err
			return false
		}
		verdict = it.classify(r)
		it.pos += size
	}

	for it.pos < len(it.src) {
		r, size, err := decodeRune(it.src, it.pos)
		if err != nil {
			it.err = err
			return false
		}
		if v := it.classify(r); v != verdict {
			it.pending = true
			it.pendingSize = size
			it.pendingVerdict = v
			break
		}
		it.pos += size
	}

	it.span = Span{Start: start, End: it.pos}
	it.verdict = verdict
	return true
}

// Span returns the current span.
func (it *SpanIterator) Span() Span {
	return it.span
}

// Text returns the current span's text.
// The result shares the source's backing storage; nothing is copied.
func (it *SpanIterator) Text() string {
	return it.src[it.span.Start:it.span.End]
}

// Verdict returns the classifier verdict shared by every rune in the
// current span.
func (it *SpanIterator) Verdict() bool {
	return it.verdict
}

// Err returns the decoding failure that halted iteration, if any.
func (it *SpanIterator) Err() error {
	return it.err
}

// Reset returns the iterator to the start of the source, clearing any
// sticky decode error. The verdict filter is kept.
func (it *SpanIterator) Reset() {
	it.pos = 0
	it.pending = false
	it.span = Span{}
	it.verdict = false
	it.err = nil
}

// Count consumes the iterator and returns the number of remaining spans.
func (it *SpanIterator) Count() int {
	n := 0
	for it.Next() {
		n++
	}
	return n
}

// ForEach consumes the iterator, calling fn with each remaining span and
// its verdict.
func (it *SpanIterator) ForEach(fn func(span Span, verdict bool)) {
	for it.Next() {
		fn(it.span, it.verdict)
	}
}

// RuneIterator walks a source string once, left to right, emitting each
// rune together with its classifier verdict. It shares the span
// scanner's decode step but performs no run merging, so every pull
// yields exactly one rune.
type RuneIterator struct {
	src      string
	classify Classifier
	pos      int // Byte offset of the next unconsumed rune

	// Verdict filter (see Only)
	filtered bool
	want     bool

	r       rune
	size    int
	offset  int
	verdict bool
	err     error
}

// Runes returns an iterator over the runes of src and their verdicts.
func Runes(src string, classify Classifier) *RuneIterator {
	return &RuneIterator{src: src, classify: classify}
}

// Only restricts iteration to runes with the given verdict and returns
// the iterator for chaining. Call it before the first Next.
func (it *RuneIterator) Only(verdict bool) *RuneIterator {
	it.filtered = true
	it.want = verdict
	return it
}

// Next advances to the next rune.
// It returns false once the source is exhausted or decoding fails;
// check Err to distinguish the two.
func (it *RuneIterator) Next() bool {
	if it.err != nil {
		return false
	}
	for it.pos < len(it.src) {
		r, size, err := decodeRune(it.src, it.pos)
		if err != nil {
			it.err = err
			return false
		}
		v := it.classify(r)
		it.r = r
		it.size = size
		it.offset = it.pos
		it.verdict = v
		it.pos += size
		if it.filtered && v != it.want {
			continue
		}
		return true
	}
	return false
}

// Rune returns the current rune.
func (it *RuneIterator) Rune() rune {
	return it.r
}

// Size returns the byte size of the current rune.
func (it *RuneIterator) Size() int {
	return it.size
}

// Offset returns the byte offset of the current rune.
func (it *RuneIterator) Offset() int {
	return it.offset
}

// Text returns the current rune as a substring of the source.
// The result shares the source's backing storage; nothing is copied.
func (it *RuneIterator) Text() string {
	return it.src[it.offset : it.offset+it.size]
}

// Verdict returns the classifier verdict for the current rune.
func (it *RuneIterator) Verdict() bool {
	return it.verdict
}

// Err returns the decoding failure that halted iteration, if any.
func (it *RuneIterator) Err() error {
	return it.err
}

// Reset returns the iterator to the start of the source, clearing any
// sticky decode error. The verdict filter is kept.
func (it *RuneIterator) Reset() {
	it.pos = 0
	it.r = 0
	it.size = 0
	it.offset = 0
	it.verdict = false
	it.err = nil
}

// Count consumes the iterator and returns the number of remaining runes.
func (it *RuneIterator) Count() int {
	n := 0
	for it.Next() {
		n++
	}
	return n
}

// ForEach consumes the iterator, calling fn with each remaining rune and
// its verdict.
func (it *RuneIterator) ForEach(fn func(r rune, verdict bool)) {
	for it.Next() {
		fn(it.r, it.verdict)
	}
}
