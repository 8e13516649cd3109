package watcher

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/seekr/seekr/internal/indexer"
)

// State names the watcher's position in its Idle/Pending/Indexing cycle.
type State int32

const (
	StateIdle State = iota
	StatePending
	StateIndexing
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateIndexing:
		return "indexing"
	default:
		return "idle"
	}
}

// Watcher drives re-indexing from filesystem events. It follows the state
// machine: Idle on any event -> Pending(debounce); Pending's timer firing
// snapshots the dirty set and moves to Indexing, which runs a full
// indexer.Index pass (the fingerprint store is what actually determines
// "nothing changed"); any events arriving during Indexing start a fresh
// Pending once Indexing completes.
type Watcher struct {
	root      string
	ix        *indexer.Indexer
	source    Source
	debouncer *Debouncer
	log       *slog.Logger
	state     atomic.Int32

	indexedCount atomic.Uint64
}

// New constructs a Watcher. It tries fsnotify first and falls back to
// polling at a 5s interval if fsnotify can't initialize.
func New(root string, ix *indexer.Indexer, debounce time.Duration, log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.Default()
	}
	source, err := NewFsnotifySource()
	var src Source
	if err != nil {
		log.Warn("fsnotify unavailable, falling back to polling", slog.String("error", err.Error()))
		src = NewPollingSource(5 * time.Second)
	} else {
		src = source
	}

	return &Watcher{
		root:      root,
		ix:        ix,
		source:    src,
		debouncer: NewDebouncer(debounce),
		log:       log,
	}
}

// Run starts the watcher and blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.source.Start(w.root); err != nil {
		return err
	}
	defer w.source.Stop()
	defer w.debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.source.Events():
			if !ok {
				return nil
			}
			w.state.Store(int32(StatePending))
			w.debouncer.Add(ev.Path)

		case err, ok := <-w.source.Errors():
			if !ok {
				return nil
			}
			w.log.Warn("watcher source error", slog.String("error", err.Error()))

		case dirty, ok := <-w.debouncer.Output():
			if !ok {
				return nil
			}
			w.state.Store(int32(StateIndexing))
			w.reindex(ctx, dirty)
			w.state.Store(int32(StateIdle))
		}
	}
}

func (w *Watcher) reindex(ctx context.Context, dirty map[string]struct{}) {
	result, err := w.ix.Index(ctx, false)
	if err != nil {
		w.log.Warn("watch-triggered index failed", slog.String("error", err.Error()))
		return
	}
	w.indexedCount.Add(1)
	w.log.Info("reindexed after file changes",
		slog.Int("dirty_paths", len(dirty)),
		slog.Int("added", result.FilesAdded),
		slog.Int("modified", result.FilesModified),
		slog.Int("deleted", result.FilesDeleted))
}

// State reports the watcher's current position in the Idle/Pending/Indexing
// cycle, for status reporting.
func (w *Watcher) State() State {
	return State(w.state.Load())
}

// IndexRuns returns how many watch-triggered index passes have completed.
func (w *Watcher) IndexRuns() uint64 {
	return w.indexedCount.Load()
}
