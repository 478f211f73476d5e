package striter

import "fmt"

// Span represents a byte range in the source text.
// Start is inclusive, End is exclusive: [Start, End).
type Span struct {
	Start int // Inclusive start offset
	End   int // Exclusive end offset
}

// NewSpan creates a new Span from start and end offsets.
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d)", s.Start, s.End)
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// IsValid reports whether the span is well formed (0 <= Start <= End).
func (s Span) IsValid() bool {
	return 0 <= s.Start && s.Start <= s.End
}

// Contains reports whether the given byte offset falls within the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Slice materializes the span as a substring of src.
// The result shares src's backing storage; nothing is copied. The span
// must have been produced by an iterator over the same src.
func (s Span) Slice(src string) string {
	return src[s.Start:s.End]
}
