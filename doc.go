// Package striter provides lazy, zero-copy iterators over the contents
// of a string: classifier-driven spans, individual runes, grapheme
// clusters, and substrings delimited by a literal separator.
//
// The core of the package is a span scanner. Given a source string and a
// Classifier (a predicate over single runes), the scanner walks the
// source once, left to right, and emits the maximal runs of consecutive
// runes that share one classifier verdict. Every emitted span is a byte
// range into the original string; nothing is ever copied.
//
// Key properties:
//   - Single forward pass, O(n) over the whole iteration
//   - No allocation beyond the iterator itself
//   - The classifier is called at most once per rune, in source order
//   - Spans are contiguous, non-overlapping, and in increasing offset
//     order; concatenating them reconstructs the source exactly
//   - Adjacent spans always carry opposite verdicts
//
// Basic usage:
//
//	it := striter.Spans("1 2 3", unicode.IsDigit)
//	for it.Next() {
//		fmt.Printf("%q %v\n", it.Text(), it.Verdict())
//	}
//	// "1" true, " " false, "2" true, " " false, "3" true
//
// RuneIterator re-expresses the same scan at per-rune granularity,
// Words and Substrings cover the two everyday splitting tasks, and
// Graphemes segments by extended grapheme cluster. All iterators share
// the pull protocol: Next advances, accessors report, Err surfaces a
// decoding failure. Seq adapters bridge to range-over-func loops and the
// iter package's combinators.
//
// Malformed Input:
//
// The source must be valid UTF-8. Scanning stops at the first malformed
// byte sequence: the pull that encounters it emits nothing, Next returns
// false, and Err reports a *DecodeError carrying the exact byte offset.
// No replacement character is substituted.
//
// Thread Safety:
//
// Iterators are single-threaded; each owns its cursor exclusively and
// must not be shared across goroutines without external synchronization.
// The source string is never mutated, so any number of independent
// iterators may scan the same string concurrently.
package striter
