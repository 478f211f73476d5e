package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const chanBuffer = 64

// Notifier is an fsnotify-backed Source for individual files.
//
// It watches each file's parent directory rather than the file itself,
// so notifications keep flowing when an editor replaces the file by
// writing a temporary and renaming it over the original. Events are
// filtered to the registered files.
type Notifier struct {
	mu sync.RWMutex

	fsw *fsnotify.Watcher

	// files maps watched absolute file paths.
	files map[string]bool

	// dirs refcounts watched parent directories.
	dirs map[string]int

	events chan Event
	errors chan error

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewNotifier creates a notifier with no watched files.
func NewNotifier() (*Notifier, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	n := &Notifier{
		fsw:     fsw,
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
		events:  make(chan Event, chanBuffer),
		errors:  make(chan error, chanBuffer),
		closeCh: make(chan struct{}),
	}

	n.wg.Add(1)
	go n.processLoop()

	return n, nil
}

// Add starts watching a file. The file must exist.
func (n *Notifier) Add(path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrClosed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}
	if n.files[abs] {
		return ErrAlreadyWatching
	}

	dir := filepath.Dir(abs)
	if n.dirs[dir] == 0 {
		if err := n.fsw.Add(dir); err != nil {
			return err
		}
	}
	n.dirs[dir]++
	n.files[abs] = true
	return nil
}

// Remove stops watching a file.
func (n *Notifier) Remove(path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrClosed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !n.files[abs] {
		return ErrNotWatching
	}

	delete(n.files, abs)
	dir := filepath.Dir(abs)
	n.dirs[dir]--
	if n.dirs[dir] <= 0 {
		delete(n.dirs, dir)
		if err := n.fsw.Remove(dir); err != nil {
			return err
		}
	}
	return nil
}

// IsWatching reports whether the file is being watched.
func (n *Notifier) IsWatching(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.files[abs]
}

// WatchedFiles returns the watched file paths.
func (n *Notifier) WatchedFiles() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	paths := make([]string, 0, len(n.files))
	for p := range n.files {
		paths = append(paths, p)
	}
	return paths
}

// Events returns the event channel.
func (n *Notifier) Events() <-chan Event {
	return n.events
}

// Errors returns the error channel.
func (n *Notifier) Errors() <-chan error {
	return n.errors
}

// Close stops the notifier. Close is idempotent.
func (n *Notifier) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	close(n.closeCh)
	n.mu.Unlock()

	n.wg.Wait()

	close(n.events)
	close(n.errors)

	return n.fsw.Close()
}

// processLoop converts fsnotify events into file events.
func (n *Notifier) processLoop() {
	defer n.wg.Done()

	for {
		select {
		case <-n.closeCh:
			return

		case fsEvent, ok := <-n.fsw.Events:
			if !ok {
				return
			}
			n.handleFSEvent(fsEvent)

		case err, ok := <-n.fsw.Errors:
			if !ok {
				return
			}
			n.sendError(err)
		}
	}
}

// handleFSEvent filters and forwards a directory event.
func (n *Notifier) handleFSEvent(fsEvent fsnotify.Event) {
	path := filepath.Clean(fsEvent.Name)

	n.mu.RLock()
	watched := n.files[path]
	n.mu.RUnlock()
	if !watched {
		return
	}

	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}

	n.sendEvent(Event{
		Path: path,
		Op:   op,
		Time: time.Now(),
	})
}

// convertOp converts fsnotify.Op to Op. Chmod-only events are dropped;
// a permission change does not change the scanned content.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}

// sendEvent sends an event without blocking the process loop.
func (n *Notifier) sendEvent(event Event) {
	select {
	case n.events <- event:
	default:
		// Channel full, drop event.
	}
}

// sendError sends an error without blocking the process loop.
func (n *Notifier) sendError(err error) {
	select {
	case n.errors <- err:
	default:
		// Channel full, drop error.
	}
}

// Ensure Notifier implements Source.
var _ Source = (*Notifier)(nil)
