package embedding

import (
	"context"

	"github.com/dgraph-io/ristretto"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Service turns text into a fixed-length vector
type Service interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// client implements Service interface
type client struct {
	llmClient gollem.LLMClient
	cacheSize int64
	cache     *ristretto.Cache
}

// Option is a functional option for client configuration
type Option func(*client)

// WithCache keeps up to size embeddings in memory, keyed by the exact input
// text. Zero disables the cache.
func WithCache(size int64) Option {
	return func(c *client) {
		c.cacheSize = size
	}
}

// New creates a new embedding service backed by the LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.cacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: c.cacheSize * 10,
			MaxCost:     c.cacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create embedding cache", goerr.V("size", c.cacheSize))
		}
		c.cache = cache
	}

	return c, nil
}

// Embed generates an embedding of model.EmbeddingDimension for text
func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(text); ok {
			if cached, ok := v.([]float32); ok {
				return copyVector(cached), nil
			}
		}
	}

	embeddings, err := c.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, goerr.New("no embedding returned")
	}
	if len(embeddings[0]) != model.EmbeddingDimension {
		return nil, goerr.Wrap(model.ErrEmbeddingDimension, "embedding model returned unexpected dimension",
			goerr.V("expected", model.EmbeddingDimension),
			goerr.V("actual", len(embeddings[0])),
		)
	}

	// Convert float64 to float32
	result := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		result[i] = float32(v)
	}

	if c.cache != nil {
		c.cache.Set(text, copyVector(result), 1)
		c.cache.Wait()
	}

	return result, nil
}

func copyVector(v []float32) []float32 {
	copied := make([]float32, len(v))
	copy(copied, v)
	return copied
}
