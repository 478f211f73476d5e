package striter

import (
	"errors"
	"fmt"
)

// ErrInvalidUTF8 indicates the source text contains a byte sequence that
// does not decode as UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 sequence")

// DecodeError reports a malformed byte sequence in the source text.
// It wraps ErrInvalidUTF8 and records where decoding failed.
type DecodeError struct {
	Offset int // Byte offset of the first undecodable byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid UTF-8 sequence at offset %d", e.Offset)
}

// Unwrap returns ErrInvalidUTF8 so callers can match with errors.Is.
func (e *DecodeError) Unwrap() error {
	return ErrInvalidUTF8
}
