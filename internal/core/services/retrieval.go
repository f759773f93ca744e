package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
	"github.com/custodia-labs/notefuse/internal/core/ports/driving"
	"github.com/custodia-labs/notefuse/internal/logger"
	"github.com/custodia-labs/notefuse/internal/postprocessors/chunker"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService is the search engine facade: it indexes text, runs
// hybrid search and finds related resources.
type RetrievalService struct {
	cfg     domain.RetrievalConfig
	chunker driven.Chunker
	records driven.EmbeddingRecordStore
	docs    driven.DocumentStore
	store   *EmbeddingStore
	vector  *VectorSearch
	lexical *LexicalSearch
	weights FusionWeights
}

// Option configures a RetrievalService.
type Option func(*RetrievalService)

// WithChunker replaces the default rune-window chunker.
func WithChunker(c driven.Chunker) Option {
	return func(s *RetrievalService) {
		s.chunker = c
	}
}

// WithFusionWeights overrides the weights taken from the config.
func WithFusionWeights(w FusionWeights) Option {
	return func(s *RetrievalService) {
		s.weights = w
	}
}

// NewRetrievalService wires the engine together.
//
// index may be nil, in which case a BruteForceIndex over records is used.
// lexical may be nil, in which case docs serves lexical search. docs may be
// nil, which disables enrichment and document-based related lookups.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	records driven.EmbeddingRecordStore,
	index driven.VectorIndex,
	lexical driven.LexicalIndex,
	docs driven.DocumentStore,
	cfg domain.RetrievalConfig,
	opts ...Option,
) (*RetrievalService, error) {
	if err := ValidateRetrievalConfig(cfg); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, fmt.Errorf("%w: embedding record store is required", domain.ErrInvalidConfiguration)
	}
	if index == nil {
		index = NewBruteForceIndex(records, cfg.CandidateCap)
	}
	if lexical == nil && docs != nil {
		lexical = docs
	}

	s := &RetrievalService{
		cfg:     cfg,
		records: records,
		docs:    docs,
		store:   NewEmbeddingStore(embedder, records, cfg),
		vector:  NewVectorSearch(embedder, index, docs, cfg),
		lexical: NewLexicalSearch(lexical, cfg),
		weights: WeightsFromConfig(cfg),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.chunker == nil {
		proc, err := chunker.New(chunker.WithChunkSize(cfg.ChunkSize), chunker.WithOverlap(cfg.Overlap))
		if err != nil {
			return nil, err
		}
		s.chunker = proc
	}
	return s, nil
}

// Config returns the retrieval config in effect.
func (s *RetrievalService) Config() domain.RetrievalConfig {
	return s.cfg
}

// Index chunks and embeds text, appending records for the resource.
func (s *RetrievalService) Index(ctx context.Context, resourceID, resourceType, text string) (int, error) {
	if err := validateKey(resourceID, resourceType); err != nil {
		return 0, err
	}

	chunks := s.chunker.Chunk(text)
	logger.Debug("Index %s/%s: %d chars -> %d chunks (size=%d overlap=%d)",
		resourceType, resourceID, len([]rune(text)), len(chunks), s.chunker.ChunkSize(), s.chunker.Overlap())

	return s.store.Save(ctx, resourceID, resourceType, chunks)
}

// Reindex replaces every record of the resource with records for text.
func (s *RetrievalService) Reindex(ctx context.Context, resourceID, resourceType, text string) (int, error) {
	if err := validateKey(resourceID, resourceType); err != nil {
		return 0, err
	}

	removed, err := s.store.DeleteByResource(ctx, resourceID, resourceType)
	if err != nil {
		return 0, err
	}
	logger.Debug("Reindex %s/%s: removed %d records", resourceType, resourceID, removed)

	return s.Index(ctx, resourceID, resourceType, text)
}

// Remove deletes every record owned by the resource.
func (s *RetrievalService) Remove(ctx context.Context, resourceID, resourceType string) (int, error) {
	if err := validateKey(resourceID, resourceType); err != nil {
		return 0, err
	}
	return s.store.DeleteByResource(ctx, resourceID, resourceType)
}

func validateKey(resourceID, resourceType string) error {
	var errs []error
	if resourceID == "" {
		errs = append(errs, errors.New("resource id is required"))
	}
	if resourceType == "" {
		errs = append(errs, errors.New("resource type is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
