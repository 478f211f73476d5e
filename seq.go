package striter

import "iter"

// Seq adapters bridge the pull iterators to range-over-func loops and
// the iter package's combinators. Each adapter consumes the iterator it
// was built from; breaking out of the range leaves the iterator
// positioned after the last yielded element, so iteration can resume
// with Next. A decoding failure ends the sequence early and is reported
// by the iterator's Err method.

// Seq returns the remaining spans and their verdicts as an iter.Seq2.
func (it *SpanIterator) Seq() iter.Seq2[Span, bool] {
	return func(yield func(Span, bool) bool) {
		for it.Next() {
			if !yield(it.span, it.verdict) {
				return
			}
		}
	}
}

// Seq returns the remaining runes and their verdicts as an iter.Seq2.
func (it *RuneIterator) Seq() iter.Seq2[rune, bool] {
	return func(yield func(rune, bool) bool) {
		for it.Next() {
			if !yield(it.r, it.verdict) {
				return
			}
		}
	}
}

// Seq returns the remaining substrings as an iter.Seq.
func (it *SubstrIterator) Seq() iter.Seq[string] {
	return func(yield func(string) bool) {
		for it.Next() {
			if !yield(it.Text()) {
				return
			}
		}
	}
}

// Seq returns the remaining grapheme clusters as an iter.Seq.
func (it *GraphemeIterator) Seq() iter.Seq[string] {
	return func(yield func(string) bool) {
		for it.Next() {
			if !yield(it.Text()) {
				return
			}
		}
	}
}
