package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid-fire path events into a single dirty-path set,
// emitting that set once no new event has arrived for window. Unlike a
// byte-for-byte file watcher, this debouncer doesn't need to reason about
// create/modify/delete sequences per path: the indexer re-derives each
// path's status from the fingerprint store on every flush, so coalescing
// only needs to track which paths changed, not how.
type Debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	dirty   map[string]struct{}
	timer   *time.Timer
	output  chan map[string]struct{}
	stopCh  chan struct{}
	stopped bool
}

func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window: window,
		dirty:  make(map[string]struct{}),
		output: make(chan map[string]struct{}, 1),
		stopCh: make(chan struct{}),
	}
}

// Add records path as dirty and (re)starts the debounce timer.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.dirty[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped || len(d.dirty) == 0 {
		return
	}
	batch := d.dirty
	d.dirty = make(map[string]struct{})
	select {
	case d.output <- batch:
	default:
		// a batch is already queued; keep these paths dirty and send them
		// in a later batch after another window
		for p := range batch {
			d.dirty[p] = struct{}{}
		}
		d.timer = time.AfterFunc(d.window, d.flush)
	}
}

// Output is the channel of coalesced dirty-path sets.
func (d *Debouncer) Output() <-chan map[string]struct{} {
	return d.output
}

// Stop halts the debouncer. Safe to call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.stopCh)
	close(d.output)
}
