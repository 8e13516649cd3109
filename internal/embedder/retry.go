package embedder

import (
	"context"

	seekrerrors "github.com/seekr/seekr/internal/errors"
)

// RetryingEmbedder retries a failing EmbedBatch call with the embedder
// backoff schedule before surfacing an EmbedderError.
type RetryingEmbedder struct {
	inner Embedder
}

func NewRetryingEmbedder(inner Embedder) *RetryingEmbedder {
	return &RetryingEmbedder{inner: inner}
}

func (r *RetryingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	err := seekrerrors.Retry(ctx, seekrerrors.EmbedderRetryConfig(), func() error {
		v, err := r.inner.Embed(ctx, text)
		if err != nil {
			return err
		}
		vec = v
		return nil
	})
	if err != nil {
		return nil, seekrerrors.EmbedderFailed(r.inner.ModelName(), err)
	}
	return vec, nil
}

func (r *RetryingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var vecs [][]float32
	err := seekrerrors.Retry(ctx, seekrerrors.EmbedderRetryConfig(), func() error {
		v, err := r.inner.EmbedBatch(ctx, texts)
		if err != nil {
			return err
		}
		vecs = v
		return nil
	})
	if err != nil {
		return nil, seekrerrors.EmbedderFailed(r.inner.ModelName(), err)
	}
	return vecs, nil
}

func (r *RetryingEmbedder) ModelName() string { return r.inner.ModelName() }
func (r *RetryingEmbedder) Close() error      { return r.inner.Close() }
