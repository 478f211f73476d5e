package watch

import (
	"sync"
	"time"
)

// DefaultDelay is the debounce window used when none is given.
const DefaultDelay = 100 * time.Millisecond

// Debouncer wraps a Source and coalesces rapid changes to the same
// file into a single event. Each new event for a path restarts that
// path's timer; the union of observed operations is delivered when the
// timer fires.
type Debouncer struct {
	source Source
	delay  time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEvent

	events chan Event
	errors chan error

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// pendingEvent tracks a debounced event.
type pendingEvent struct {
	event Event
	timer *time.Timer
	ops   Op
}

// NewDebouncer creates a debouncing wrapper around source.
func NewDebouncer(source Source, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}

	d := &Debouncer{
		source:  source,
		delay:   delay,
		pending: make(map[string]*pendingEvent),
		events:  make(chan Event, chanBuffer),
		errors:  make(chan error, chanBuffer),
		closeCh: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.processLoop()

	return d
}

// Add starts watching a file.
func (d *Debouncer) Add(path string) error {
	return d.source.Add(path)
}

// Remove stops watching a file.
func (d *Debouncer) Remove(path string) error {
	return d.source.Remove(path)
}

// Events returns the debounced event channel.
func (d *Debouncer) Events() <-chan Event {
	return d.events
}

// Errors returns the error channel. Errors are forwarded immediately.
func (d *Debouncer) Errors() <-chan error {
	return d.errors
}

// Close stops the debouncer and its source. Pending events are
// discarded. Close is idempotent.
func (d *Debouncer) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.closeCh)

	for path, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, path)
	}
	d.mu.Unlock()

	d.wg.Wait()

	close(d.events)
	close(d.errors)

	return d.source.Close()
}

// Flush immediately fires all pending events.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	paths := make([]string, 0, len(d.pending))
	for path, p := range d.pending {
		p.timer.Stop()
		paths = append(paths, path)
	}
	d.mu.Unlock()

	for _, path := range paths {
		d.fireEvent(path)
	}
}

// PendingCount returns the number of paths awaiting delivery.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// processLoop consumes the source's channels.
func (d *Debouncer) processLoop() {
	defer d.wg.Done()

	for {
		select {
		case <-d.closeCh:
			return

		case event, ok := <-d.source.Events():
			if !ok {
				return
			}
			d.handleEvent(event)

		case err, ok := <-d.source.Errors():
			if !ok {
				return
			}
			d.forwardError(err)
		}
	}
}

// handleEvent coalesces an incoming event.
func (d *Debouncer) handleEvent(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	if p, exists := d.pending[event.Path]; exists {
		p.ops |= event.Op
		p.event.Op = p.ops
		p.event.Time = event.Time
		p.timer.Reset(d.delay)
		return
	}

	p := &pendingEvent{
		event: event,
		ops:   event.Op,
	}
	p.timer = time.AfterFunc(d.delay, func() {
		d.fireEvent(event.Path)
	})
	d.pending[event.Path] = p
}

// fireEvent delivers a pending event. The send happens under the
// mutex so Close cannot close the channel between the pending check
// and the send; the buffered channel keeps the send non-blocking.
func (d *Debouncer) fireEvent(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, exists := d.pending[path]
	if !exists || d.closed {
		return
	}
	delete(d.pending, path)

	select {
	case d.events <- p.event:
	default:
		// Channel full, drop event.
	}
}

// forwardError forwards a source error.
func (d *Debouncer) forwardError(err error) {
	select {
	case d.errors <- err:
	default:
		// Channel full, drop error.
	}
}

// Ensure Debouncer implements Source.
var _ Source = (*Debouncer)(nil)
