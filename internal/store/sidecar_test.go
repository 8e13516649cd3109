package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seekr/seekr/internal/chunk"
)

func TestSidecarPutAndGet(t *testing.T) {
	s := NewSidecar()
	s.Put([]chunk.Chunk{
		{ChunkID: 1, Path: "a.go", StartLine: 1, EndLine: 10, Text: "func A() {}", LanguageTag: "go"},
	})

	c, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "a.go", c.Path)
	assert.Equal(t, "go", c.LanguageTag)
}

func TestSidecarDeletePathReturnsAffectedIDs(t *testing.T) {
	s := NewSidecar()
	s.Put([]chunk.Chunk{
		{ChunkID: 1, Path: "a.go", StartLine: 1, EndLine: 5, Text: "x", LanguageTag: "go"},
		{ChunkID: 2, Path: "a.go", StartLine: 6, EndLine: 10, Text: "y", LanguageTag: "go"},
		{ChunkID: 3, Path: "b.go", StartLine: 1, EndLine: 5, Text: "z", LanguageTag: "go"},
	})

	deleted := s.DeletePath("a.go")
	assert.ElementsMatch(t, []uint64{1, 2}, deleted)
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get(1)
	assert.False(t, ok)
	_, ok = s.Get(3)
	assert.True(t, ok)
}

func TestSidecarSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chunks.bin")

	s := NewSidecar()
	s.Put([]chunk.Chunk{
		{ChunkID: 42, Path: "pkg/server.go", StartLine: 10, EndLine: 25, Text: "func Serve() error {\n\treturn nil\n}", LanguageTag: "go"},
		{ChunkID: 99, Path: "README.md", StartLine: 1, EndLine: 40, Text: "# Title\n\nBody text.", LanguageTag: "markdown"},
	})
	require.NoError(t, s.Save(path))

	loaded := NewSidecar()
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, 2, loaded.Len())

	c, ok := loaded.Get(42)
	require.True(t, ok)
	assert.Equal(t, "pkg/server.go", c.Path)
	assert.Equal(t, 10, c.StartLine)
	assert.Equal(t, 25, c.EndLine)
	assert.Equal(t, "go", c.LanguageTag)
	assert.Contains(t, c.Text, "return nil")
}

func TestSidecarLoadMissingFileIsEmpty(t *testing.T) {
	s := NewSidecar()
	require.NoError(t, s.Load(filepath.Join(t.TempDir(), "missing.bin")))
	assert.Equal(t, 0, s.Len())
}
