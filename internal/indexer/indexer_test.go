package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seekr/seekr/internal/config"
	"github.com/seekr/seekr/internal/embedder"
)

func newTestIndexer(t *testing.T, root string) *Indexer {
	t.Helper()
	cfg := config.Default()
	cfg.Indexer.Workers = 2
	ix, err := Open(root, cfg, embedder.NewStaticEmbedder(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIndexAddsNewFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n")

	ix := newTestIndexer(t, root)
	result, err := ix.Index(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesAdded)
	assert.Equal(t, 0, result.FilesModified)
	assert.Greater(t, result.ChunksIndexed, 0)
	assert.Equal(t, result.ChunksIndexed, ix.StatusReport().ChunksStored)
}

func TestIndexSecondRunWithNoChangesIsUnchanged(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	ix := newTestIndexer(t, root)
	_, err := ix.Index(context.Background(), false)
	require.NoError(t, err)

	result, err := ix.Index(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, result.FilesAdded)
	assert.Equal(t, 0, result.FilesModified)
	assert.Equal(t, 1, result.FilesUnchanged)
	assert.Equal(t, 0, result.ChunksIndexed)
}

func TestIndexDetectsModificationAndReindexes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	ix := newTestIndexer(t, root)
	_, err := ix.Index(context.Background(), false)
	require.NoError(t, err)

	writeFile(t, root, "main.go", "package main\n\nfunc main() {\n\tprintln(\"changed\")\n}\n")
	result, err := ix.Index(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesModified)
	assert.Greater(t, result.ChunksIndexed, 0)
}

func TestIndexDeletedFileRemovesItsChunks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	ix := newTestIndexer(t, root)
	_, err := ix.Index(context.Background(), false)
	require.NoError(t, err)
	require.Greater(t, ix.StatusReport().ChunksStored, 0)

	require.NoError(t, os.Remove(filepath.Join(root, "main.go")))
	result, err := ix.Index(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesDeleted)
	assert.Equal(t, 0, ix.StatusReport().ChunksStored)
}

func TestIndexForceReindexesUnchangedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	ix := newTestIndexer(t, root)
	_, err := ix.Index(context.Background(), false)
	require.NoError(t, err)

	result, err := ix.Index(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesModified)
}

func TestIndexPersistsAcrossReopen(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	ix := newTestIndexer(t, root)
	_, err := ix.Index(context.Background(), false)
	require.NoError(t, err)
	chunksBefore := ix.StatusReport().ChunksStored
	require.NoError(t, ix.Close())

	reopened := newTestIndexer(t, root)
	status := reopened.StatusReport()
	assert.Equal(t, 1, status.FilesTracked)
	assert.Equal(t, chunksBefore, status.ChunksStored)
	assert.Equal(t, chunksBefore, status.VectorsStored)
}
