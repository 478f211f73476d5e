package app

import (
	"fmt"

	"golang.org/x/text/encoding/ianaindex"
)

// decode converts input bytes in the named encoding to a UTF-8 string.
// An empty name or a UTF-8 alias passes the bytes through; the scanner
// surfaces any invalid sequences itself.
func decode(data []byte, encodingName string) (string, error) {
	switch encodingName {
	case "", "utf-8", "UTF-8", "utf8":
		return string(data), nil
	}

	enc, err := ianaindex.IANA.Encoding(encodingName)
	if err != nil {
		return "", fmt.Errorf("unknown encoding %q: %w", encodingName, err)
	}
	if enc == nil {
		// The index knows the name but ships no implementation.
		return "", fmt.Errorf("unsupported encoding %q", encodingName)
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s input: %w", encodingName, err)
	}
	return string(decoded), nil
}
