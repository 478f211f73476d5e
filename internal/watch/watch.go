// Package watch delivers debounced change notifications for watched
// files. A Notifier turns fsnotify events into per-file Events; a
// Debouncer coalesces bursts of events on the same file into one.
package watch

import (
	"errors"
	"strings"
	"time"
)

// Op is a bitmask of file operations. Coalesced events carry the union
// of the operations observed in the debounce window.
type Op uint32

const (
	// OpCreate indicates the file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates the file was modified.
	OpWrite
	// OpRemove indicates the file was deleted.
	OpRemove
	// OpRename indicates the file was renamed away.
	OpRename
)

// Has reports whether op contains o.
func (op Op) Has(o Op) bool {
	return op&o != 0
}

// String returns the operation names joined with "|".
func (op Op) String() string {
	var names []string
	if op.Has(OpCreate) {
		names = append(names, "create")
	}
	if op.Has(OpWrite) {
		names = append(names, "write")
	}
	if op.Has(OpRemove) {
		names = append(names, "remove")
	}
	if op.Has(OpRename) {
		names = append(names, "rename")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Event represents a change to a watched file.
type Event struct {
	// Path is the absolute path of the changed file.
	Path string

	// Op is the operation, or union of operations after coalescing.
	Op Op

	// Time is when the last contributing event occurred.
	Time time.Time
}

// Gone reports whether the file is no longer at its watched path.
func (e Event) Gone() bool {
	return e.Op.Has(OpRemove) || e.Op.Has(OpRename)
}

var (
	// ErrClosed is returned when using a closed watcher.
	ErrClosed = errors.New("watcher is closed")

	// ErrAlreadyWatching is returned when a path is already watched.
	ErrAlreadyWatching = errors.New("already watching path")

	// ErrNotWatching is returned when removing an unwatched path.
	ErrNotWatching = errors.New("not watching path")
)

// Source is the watcher surface a Debouncer wraps.
type Source interface {
	Add(path string) error
	Remove(path string) error
	Events() <-chan Event
	Errors() <-chan error
	Close() error
}

// Files watches the given files with debounced delivery.
func Files(paths []string, delay time.Duration) (*Debouncer, error) {
	n, err := NewNotifier()
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		if err := n.Add(path); err != nil {
			n.Close()
			return nil, err
		}
	}
	return NewDebouncer(n, delay), nil
}
