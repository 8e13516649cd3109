// Package embedder turns chunk text into unit-normalized vectors used by
// the semantic index.
package embedder

import (
	"context"
	"math"
)

// Dimensions is the fixed vector width every embedder in this package
// produces.
const Dimensions = 384

// BatchSize is the default number of texts submitted to EmbedBatch per
// indexing round.
const BatchSize = 32

// Embedder generates normalized embedding vectors for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
	Close() error
}

// normalize scales v to unit L2 length. The zero vector is returned as-is.
func normalize(v []float32) []float32 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / magnitude)
	}
	return out
}
