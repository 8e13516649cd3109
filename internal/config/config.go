// Package config loads the optional per-workspace .seekr.yaml file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables seekr's components read at startup. Absence of
// a .seekr.yaml file is not an error: Load always returns a valid Config.
type Config struct {
	BM25    BM25Config    `yaml:"bm25"`
	Search  SearchConfig  `yaml:"search"`
	Watch   WatchConfig   `yaml:"watch"`
	Indexer IndexerConfig `yaml:"indexer"`
}

// BM25Config holds BM25 k1/b values. They are merged and validated here;
// the lexical index does not apply them to its scoring.
type BM25Config struct {
	K1 float64 `yaml:"k1"`
	B  float64 `yaml:"b"`
}

// SearchConfig overrides query engine defaults.
type SearchConfig struct {
	DefaultK            int     `yaml:"default_k"`
	DefaultAlpha        float64 `yaml:"default_alpha"`
	DefaultContextLines int     `yaml:"default_context_lines"`
}

// WatchConfig overrides the filesystem watcher's debounce window.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// IndexerConfig overrides indexing concurrency.
type IndexerConfig struct {
	Workers int `yaml:"workers"`
}

// Default returns seekr's hardcoded defaults, matching the values named in
// the component design (BM25 k1=1.2/b=0.75, k=10, alpha=0.5, context_lines=3,
// debounce=500ms, workers=max(1, NumCPU-1)).
func Default() *Config {
	workers := runtime.NumCPU() - 1
	if workers < 1 {
		workers = 1
	}
	return &Config{
		BM25: BM25Config{K1: 1.2, B: 0.75},
		Search: SearchConfig{
			DefaultK:            10,
			DefaultAlpha:        0.5,
			DefaultContextLines: 3,
		},
		Watch:   WatchConfig{DebounceMS: 500},
		Indexer: IndexerConfig{Workers: workers},
	}
}

// DebounceDuration returns the watch debounce window as a time.Duration.
func (c *Config) DebounceDuration() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// Load reads <root>/.seekr.yaml if present and merges non-zero fields over
// the defaults. A missing file is not an error.
func Load(root string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(root, ".seekr.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.mergeWith(&parsed)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) mergeWith(other *Config) {
	if other.BM25.K1 != 0 {
		c.BM25.K1 = other.BM25.K1
	}
	if other.BM25.B != 0 {
		c.BM25.B = other.BM25.B
	}
	if other.Search.DefaultK != 0 {
		c.Search.DefaultK = other.Search.DefaultK
	}
	if other.Search.DefaultAlpha != 0 {
		c.Search.DefaultAlpha = other.Search.DefaultAlpha
	}
	if other.Search.DefaultContextLines != 0 {
		c.Search.DefaultContextLines = other.Search.DefaultContextLines
	}
	if other.Watch.DebounceMS != 0 {
		c.Watch.DebounceMS = other.Watch.DebounceMS
	}
	if other.Indexer.Workers != 0 {
		c.Indexer.Workers = other.Indexer.Workers
	}
}

// Validate rejects configuration values that would break invariants
// elsewhere (e.g. a negative alpha would invert the hybrid fusion weights).
func (c *Config) Validate() error {
	if c.Search.DefaultAlpha < 0 || c.Search.DefaultAlpha > 1 {
		return fmt.Errorf("search.default_alpha must be in [0,1], got %f", c.Search.DefaultAlpha)
	}
	if c.Search.DefaultK < 1 {
		return fmt.Errorf("search.default_k must be >= 1, got %d", c.Search.DefaultK)
	}
	if c.Indexer.Workers < 1 {
		return fmt.Errorf("indexer.workers must be >= 1, got %d", c.Indexer.Workers)
	}
	if c.BM25.K1 <= 0 || c.BM25.B < 0 || c.BM25.B > 1 {
		return fmt.Errorf("bm25.k1 must be > 0 and bm25.b in [0,1], got k1=%f b=%f", c.BM25.K1, c.BM25.B)
	}
	return nil
}
