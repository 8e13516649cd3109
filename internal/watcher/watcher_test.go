package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seekr/seekr/internal/config"
	"github.com/seekr/seekr/internal/embedder"
	"github.com/seekr/seekr/internal/indexer"
)

// fakeSource is a test double for Source that lets tests inject events
// deterministically instead of relying on real filesystem timing.
type fakeSource struct {
	events  chan RawEvent
	errors  chan error
	started chan string
	stopped chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		events:  make(chan RawEvent, 16),
		errors:  make(chan error, 16),
		started: make(chan string, 1),
		stopped: make(chan struct{}),
	}
}

func (f *fakeSource) Start(root string) error {
	f.started <- root
	return nil
}

func (f *fakeSource) Stop() error {
	close(f.stopped)
	return nil
}

func (f *fakeSource) Events() <-chan RawEvent { return f.events }
func (f *fakeSource) Errors() <-chan error    { return f.errors }

func newTestWatcher(t *testing.T, root string) (*Watcher, *indexer.Indexer) {
	t.Helper()
	cfg := config.Default()
	ix, err := indexer.Open(root, cfg, embedder.NewStaticEmbedder(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })

	w := &Watcher{
		root:      root,
		ix:        ix,
		source:    newFakeSource(),
		debouncer: NewDebouncer(20 * time.Millisecond),
		log:       slog.Default(),
	}
	return w, ix
}

func TestWatcherReindexesAfterDebouncedEvent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, writeWatcherTestFile(root, "main.go", "package main\n\nfunc main() {}\n"))

	w, ix := newTestWatcher(t, root)
	src := w.source.(*fakeSource)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	<-src.started
	src.events <- RawEvent{Path: "main.go", Timestamp: time.Now()}

	require.Eventually(t, func() bool {
		return w.IndexRuns() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	status := ix.StatusReport()
	assert.Greater(t, status.ChunksStored, 0)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not exit after context cancellation")
	}
}

func TestWatcherSurvivesSourceErrors(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, writeWatcherTestFile(root, "a.go", "package a\n"))

	w, _ := newTestWatcher(t, root)
	src := w.source.(*fakeSource)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	<-src.started
	src.errors <- assertableErr{"boom"}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, uint64(0), w.IndexRuns())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not exit after context cancellation")
	}
}

type assertableErr struct{ msg string }

func (e assertableErr) Error() string { return e.msg }

func writeWatcherTestFile(root, rel, content string) error {
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
