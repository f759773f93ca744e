// Package compat provides an embedding service for OpenAI-compatible
// inference servers (LocalAI, vLLM, LM Studio, llama.cpp) via langchaingo.
package compat

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/custodia-labs/notefuse/internal/adapters/driven/embedding"
	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
	"github.com/custodia-labs/notefuse/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const provider = "compat"

// Config holds configuration for an OpenAI-compatible server.
type Config struct {
	// BaseURL is the server's API root, e.g. http://localhost:8080/v1 (required).
	BaseURL string

	// Model is the embedding model name (required).
	Model string

	// APIKey is sent as a bearer token. Local servers usually need none.
	APIKey string

	// Dimensions is the expected vector size. Zero learns it from the
	// first embedding.
	Dimensions int
}

// EmbeddingService generates embeddings through langchaingo's OpenAI client.
type EmbeddingService struct {
	embedder   embeddings.Embedder
	model      string
	fixed      bool
	dimensions atomic.Int64
}

// NewEmbeddingService creates an embedder for an OpenAI-compatible server.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("compat: base URL is required: %w", domain.ErrInvalidConfiguration)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("compat: model is required: %w", domain.ErrInvalidConfiguration)
	}

	// Local services that need no authentication still require a token value.
	token := cfg.APIKey
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(token),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("compat: create client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("compat: create embedder: %w", err)
	}

	s := &EmbeddingService{
		embedder: embedder,
		model:    cfg.Model,
		fixed:    cfg.Dimensions > 0,
	}
	s.dimensions.Store(int64(cfg.Dimensions))
	return s, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		logger.Debug("compat: embedding failed for model %s: %v", s.model, err)
		return nil, embedding.Classify(provider, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("compat: empty embedding for model %s: %w", s.model, domain.ErrEmbeddingProvider)
	}

	if !s.fixed && s.dimensions.CompareAndSwap(0, int64(len(vec))) {
		return vec, nil
	}
	if want := int(s.dimensions.Load()); want != len(vec) {
		return nil, fmt.Errorf("compat: model %s returned %d dimensions, want %d: %w",
			s.model, len(vec), want, domain.ErrDimensionMismatch)
	}
	return vec, nil
}

// Dimensions returns the embedding vector size, or 0 before the first
// embedding when none was configured.
func (s *EmbeddingService) Dimensions() int {
	return int(s.dimensions.Load())
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping embeds a short probe. Compatible servers differ in which listing
// endpoints they expose, so a real embedding is the only portable check.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	_, err := s.Embed(ctx, "ping")
	return err
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
