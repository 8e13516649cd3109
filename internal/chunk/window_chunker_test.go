package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line content"
	}
	return strings.Join(lines, "\n")
}

func TestWindowChunkerEmptyFileProducesNoChunks(t *testing.T) {
	w := NewWindowChunker()
	chunks, err := w.Chunk(FileInput{Path: "empty.md", Content: []byte(""), LanguageTag: "markdown"})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestWindowChunker100LinesProducesOverlappingWindows(t *testing.T) {
	w := NewWindowChunker()
	chunks, err := w.Chunk(FileInput{Path: "f.java", Content: []byte(makeLines(100)), LanguageTag: "java"})
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 40, chunks[0].EndLine)
	assert.Equal(t, 31, chunks[1].StartLine)
	assert.Equal(t, 70, chunks[1].EndLine)
	assert.Equal(t, 61, chunks[2].StartLine)
	assert.Equal(t, 100, chunks[2].EndLine)
}

func TestWindowChunkerShortFileSingleChunk(t *testing.T) {
	w := NewWindowChunker()
	chunks, err := w.Chunk(FileInput{Path: "f.rb", Content: []byte(makeLines(5)), LanguageTag: "ruby"})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 5, chunks[0].EndLine)
}

func TestWindowChunkerDeterministicChunkIDs(t *testing.T) {
	w := NewWindowChunker()
	a, err := w.Chunk(FileInput{Path: "f.rb", Content: []byte(makeLines(50)), LanguageTag: "ruby"})
	require.NoError(t, err)
	b, err := w.Chunk(FileInput{Path: "f.rb", Content: []byte(makeLines(50)), LanguageTag: "ruby"})
	require.NoError(t, err)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ChunkID, b[i].ChunkID)
	}
}
