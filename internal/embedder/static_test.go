package embedder

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticEmbedderDeterministic(t *testing.T) {
	e := NewStaticEmbedder()
	ctx := context.Background()

	a, err := e.Embed(ctx, "func computeTotal(items []Item) int")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "func computeTotal(items []Item) int")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStaticEmbedderProducesUnitVectors(t *testing.T) {
	e := NewStaticEmbedder()
	vec, err := e.Embed(context.Background(), "parseConfigFile")
	require.NoError(t, err)
	require.Len(t, vec, Dimensions)

	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-5)
}

func TestStaticEmbedderEmptyTextIsZeroVector(t *testing.T) {
	e := NewStaticEmbedder()
	vec, err := e.Embed(context.Background(), "   ")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Equal(t, float32(0), v)
	}
}

func TestStaticEmbedderDistinguishesDifferentText(t *testing.T) {
	e := NewStaticEmbedder()
	a, err := e.Embed(context.Background(), "func Add(a, b int) int")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "func Subtract(a, b int) int")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestStaticEmbedderEmbedBatchMatchesEmbed(t *testing.T) {
	e := NewStaticEmbedder()
	ctx := context.Background()
	texts := []string{"alpha", "beta", "gamma"}

	batch, err := e.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, len(texts))

	for i, text := range texts {
		single, err := e.Embed(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}

func TestStaticEmbedderClosedRejectsCalls(t *testing.T) {
	e := NewStaticEmbedder()
	require.NoError(t, e.Close())
	_, err := e.Embed(context.Background(), "anything")
	assert.Error(t, err)
}
