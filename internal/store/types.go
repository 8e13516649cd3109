// Package store holds the two persisted indexes a workspace index is built
// from: a BM25 lexical index and an HNSW semantic index, plus the sidecar
// chunk table they both resolve hits against.
package store

import (
	"context"
	"strconv"
)

// Document is a unit submitted to the BM25 index: a chunk's searchable text
// keyed by its chunk_id.
type Document struct {
	ChunkID uint64
	Path    string
	Content string
}

// BM25Result is one lexical search hit.
type BM25Result struct {
	ChunkID uint64
	Score   float64
}

// BM25Index provides keyword search scored by Okapi BM25.
type BM25Index interface {
	Index(ctx context.Context, docs []Document) error
	Search(ctx context.Context, query string, limit int) ([]BM25Result, error)
	DeleteByPath(ctx context.Context, path string) error
	Delete(ctx context.Context, chunkIDs []uint64) error
	Count() (int, error)
	Close() error
}

// VectorResult is one semantic search hit.
type VectorResult struct {
	ChunkID  uint64
	Distance float32
	Score    float32 // normalized similarity in [0,1]
}

// VectorStore provides approximate nearest-neighbor search over chunk
// embeddings.
type VectorStore interface {
	Add(ctx context.Context, chunkIDs []uint64, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]VectorResult, error)
	Delete(ctx context.Context, chunkIDs []uint64) error
	Contains(chunkID uint64) bool
	Count() int
	Save(path string) error
	Load(path string) error
	Close() error
}

// ErrDimensionMismatch indicates a query or insert vector doesn't match the
// store's configured dimensionality.
type ErrDimensionMismatch struct {
	Expected int
	Got      int
}

func (e ErrDimensionMismatch) Error() string {
	return "store: vector dimension mismatch: expected " + strconv.Itoa(e.Expected) + ", got " + strconv.Itoa(e.Got)
}
