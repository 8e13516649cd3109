package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollingSourceDetectsFileCreation(t *testing.T) {
	root := t.TempDir()
	p := NewPollingSource(30 * time.Millisecond)
	require.NoError(t, p.Start(root))
	defer p.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "new.go"), []byte("package main"), 0o644))

	select {
	case ev := <-p.Events():
		assert.Equal(t, "new.go", ev.Path)
	case err := <-p.Errors():
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for create event")
	}
}

func TestPollingSourceDetectsFileModification(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "existing.go")
	require.NoError(t, os.WriteFile(target, []byte("package main"), 0o644))

	p := NewPollingSource(30 * time.Millisecond)
	require.NoError(t, p.Start(root))
	defer p.Stop()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(target, []byte("package main\n\nfunc f() {}"), 0o644))

	select {
	case ev := <-p.Events():
		assert.Equal(t, "existing.go", ev.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for modify event")
	}
}

func TestPollingSourceDetectsFileDeletion(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "gone.go")
	require.NoError(t, os.WriteFile(target, []byte("package main"), 0o644))

	p := NewPollingSource(30 * time.Millisecond)
	require.NoError(t, p.Start(root))
	defer p.Stop()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.Remove(target))

	select {
	case ev := <-p.Events():
		assert.Equal(t, "gone.go", ev.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for delete event")
	}
}

func TestPollingSourceIgnoresDataDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".seekr"), 0o755))

	p := NewPollingSource(30 * time.Millisecond)
	require.NoError(t, p.Start(root))
	defer p.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, ".seekr", "bm25.bleve"), []byte("x"), 0o644))

	select {
	case ev := <-p.Events():
		t.Fatalf("unexpected event for ignored dir: %+v", ev)
	case <-time.After(200 * time.Millisecond):
		// good: the data directory never produces events
	}
}

func TestPollingSourceStopClosesChannels(t *testing.T) {
	root := t.TempDir()
	p := NewPollingSource(10 * time.Millisecond)
	require.NoError(t, p.Start(root))
	require.NoError(t, p.Stop())

	_, ok := <-p.Events()
	assert.False(t, ok)
	_, ok = <-p.Errors()
	assert.False(t, ok)
}
