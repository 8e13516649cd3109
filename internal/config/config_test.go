package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesDesignValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1.2, cfg.BM25.K1)
	assert.Equal(t, 0.75, cfg.BM25.B)
	assert.Equal(t, 10, cfg.Search.DefaultK)
	assert.Equal(t, 0.5, cfg.Search.DefaultAlpha)
	assert.Equal(t, 3, cfg.Search.DefaultContextLines)
	assert.Equal(t, 500, cfg.Watch.DebounceMS)
	assert.GreaterOrEqual(t, cfg.Indexer.Workers, 1)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := "bm25:\n  k1: 1.5\nsearch:\n  default_alpha: 0.8\nwatch:\n  debounce_ms: 250\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".seekr.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.BM25.K1)
	assert.Equal(t, 0.75, cfg.BM25.B) // unset field keeps default
	assert.Equal(t, 0.8, cfg.Search.DefaultAlpha)
	assert.Equal(t, 250, cfg.Watch.DebounceMS)
}

func TestLoadRejectsInvalidAlpha(t *testing.T) {
	dir := t.TempDir()
	yaml := "search:\n  default_alpha: 1.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".seekr.yaml"), []byte(yaml), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
