package store

import (
	"bufio"
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/coder/hnsw"
)

// HNSW tuning constants.
const (
	HNSWM              = 16
	HNSWEfConstruction = 128
	HNSWEfSearch       = 64
)

// HNSWStore implements VectorStore over coder/hnsw, a pure-Go HNSW graph.
// chunk_id doubles as the graph key directly: there is no separate ID
// translation layer to keep consistent across saves.
type HNSWStore struct {
	mu         sync.RWMutex
	graph      *hnsw.Graph[uint64]
	dimensions int
	present    map[uint64]bool // tracks lazily-deleted keys so Contains/Count stay accurate
	closed     bool
}

func NewHNSWStore(dimensions int) *HNSWStore {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = HNSWM
	graph.EfSearch = HNSWEfSearch
	graph.Ml = 1 / math.Log(float64(HNSWM))

	return &HNSWStore{
		graph:      graph,
		dimensions: dimensions,
		present:    make(map[uint64]bool),
	}
}

// Add implements VectorStore.
func (s *HNSWStore) Add(ctx context.Context, chunkIDs []uint64, vectors [][]float32) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	if len(chunkIDs) != len(vectors) {
		return fmt.Errorf("hnsw: ids and vectors length mismatch: %d vs %d", len(chunkIDs), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("hnsw: store is closed")
	}

	for _, v := range vectors {
		if len(v) != s.dimensions {
			return ErrDimensionMismatch{Expected: s.dimensions, Got: len(v)}
		}
	}

	for i, id := range chunkIDs {
		// coder/hnsw has no in-place update; re-adding the same key
		// overwrites its entry in the graph's internal node map.
		s.graph.Add(hnsw.MakeNode(id, vectors[i]))
		s.present[id] = true
	}
	return nil
}

// Search implements VectorStore.
func (s *HNSWStore) Search(ctx context.Context, query []float32, k int) ([]VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("hnsw: store is closed")
	}
	if len(query) != s.dimensions {
		return nil, ErrDimensionMismatch{Expected: s.dimensions, Got: len(query)}
	}
	if s.graph.Len() == 0 {
		return nil, nil
	}

	nodes := s.graph.Search(query, k)
	out := make([]VectorResult, 0, len(nodes))
	for _, n := range nodes {
		if !s.present[n.Key] {
			continue // lazily deleted
		}
		dist := s.graph.Distance(query, n.Value)
		out = append(out, VectorResult{
			ChunkID:  n.Key,
			Distance: dist,
			Score:    1 - dist/2, // cosine distance in [0,2] -> similarity in [0,1]
		})
	}
	return out, nil
}

// Delete implements VectorStore using lazy deletion: the node stays in the
// graph (coder/hnsw has no safe removal of an arbitrary node) but is
// filtered out of Search/Contains/Count results.
func (s *HNSWStore) Delete(ctx context.Context, chunkIDs []uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("hnsw: store is closed")
	}
	for _, id := range chunkIDs {
		delete(s.present, id)
	}
	return nil
}

// Contains implements VectorStore.
func (s *HNSWStore) Contains(chunkID uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.present[chunkID]
}

// Count implements VectorStore.
func (s *HNSWStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.present)
}

type hnswMetadata struct {
	Present    map[uint64]bool
	Dimensions int
}

// Save persists the graph and the present-set to two sibling files, each
// written via a temp-file-then-rename for atomicity.
func (s *HNSWStore) Save(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return fmt.Errorf("hnsw: store is closed")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("hnsw: mkdir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("hnsw: create index file: %w", err)
	}
	if err := s.graph.Export(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("hnsw: export graph: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("hnsw: close index file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("hnsw: rename index file: %w", err)
	}

	return s.saveMetadata(path + ".meta")
}

func (s *HNSWStore) saveMetadata(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("hnsw: create metadata file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(hnswMetadata{Present: s.present, Dimensions: s.dimensions}); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("hnsw: encode metadata: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("hnsw: close metadata file: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load implements VectorStore.
func (s *HNSWStore) Load(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("hnsw: store is closed")
	}

	metaFile, err := os.Open(path + ".meta")
	if err != nil {
		return fmt.Errorf("hnsw: open metadata: %w", err)
	}
	defer metaFile.Close()

	var meta hnswMetadata
	if err := gob.NewDecoder(metaFile).Decode(&meta); err != nil {
		return fmt.Errorf("hnsw: decode metadata: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("hnsw: open index file: %w", err)
	}
	defer f.Close()

	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = HNSWM
	graph.EfSearch = HNSWEfSearch

	if err := graph.Import(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("hnsw: import graph: %w", err)
	}

	s.graph = graph
	s.present = meta.Present
	s.dimensions = meta.Dimensions
	return nil
}

// Close implements VectorStore.
func (s *HNSWStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.graph = nil
	return nil
}

var _ VectorStore = (*HNSWStore)(nil)
