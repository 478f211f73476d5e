package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Record is one emitted value of a scan.
type Record struct {
	// Scan identifies the scan that produced this record. All records
	// of one pass over one source share an ID.
	Scan string `json:"scan"`

	// File is the source name ("-" for stdin).
	File string `json:"file"`

	// Mode is the scan mode that produced the record.
	Mode string `json:"mode"`

	// Index is the record's position within the scan, from zero.
	Index int `json:"index"`

	// Start and End are the value's byte offsets in the source.
	Start int `json:"start"`
	End   int `json:"end"`

	// Verdict is the classifier verdict for spans and runes modes;
	// absent for modes without one.
	Verdict *bool `json:"verdict,omitempty"`

	// Text is the value itself.
	Text string `json:"text"`
}

// Writer emits scan records in the configured format.
//
// Text format prints one value per line, verbatim. With offsets
// enabled each line becomes "start<TAB>end<TAB>verdict<TAB>value",
// with the value quoted so embedded newlines stay on one line and "-"
// standing in for a missing verdict. JSON format prints one object per
// line.
type Writer struct {
	w       io.Writer
	format  string
	offsets bool
	enc     *json.Encoder
}

// NewWriter creates a record writer. Format must be validated by the
// caller; unknown formats fall back to text.
func NewWriter(w io.Writer, format string, offsets bool) *Writer {
	rw := &Writer{
		w:       w,
		format:  format,
		offsets: offsets,
	}
	if format == "json" {
		rw.enc = json.NewEncoder(w)
	}
	return rw
}

// Write emits one record.
func (w *Writer) Write(rec Record) error {
	if w.enc != nil {
		return w.enc.Encode(rec)
	}

	if w.offsets {
		verdict := "-"
		if rec.Verdict != nil {
			verdict = strconv.FormatBool(*rec.Verdict)
		}
		_, err := fmt.Fprintf(w.w, "%d\t%d\t%s\t%s\n", rec.Start, rec.End, verdict, strconv.Quote(rec.Text))
		return err
	}

	_, err := fmt.Fprintf(w.w, "%s\n", rec.Text)
	return err
}
