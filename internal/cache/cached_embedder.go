package cache

import (
	"context"

	"go.uber.org/zap"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

type VectorStore interface {
	Get(ctx context.Context, model, text string) ([]float32, bool, error)
	Set(ctx context.Context, model, text string, vector []float32) error
}

// CachedEmbedder serves repeated inputs from the store. Cache failures are
// logged and fall through to the provider; they never fail the request.
type CachedEmbedder struct {
	inner  Embedder
	store  VectorStore
	logger *zap.Logger
}

func NewCachedEmbedder(inner Embedder, store VectorStore, logger *zap.Logger) *CachedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{inner: inner, store: store, logger: logger}
}

func (e *CachedEmbedder) Model() string {
	return e.inner.Model()
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	model := e.inner.Model()
	vector, ok, err := e.store.Get(ctx, model, text)
	if err != nil {
		e.logger.Warn("embedding cache read failed", zap.Error(err))
	} else if ok {
		return vector, nil
	}

	vector, err = e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := e.store.Set(ctx, model, text, vector); err != nil {
		e.logger.Warn("embedding cache write failed", zap.Error(err))
	}
	return vector, nil
}
