package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
	"github.com/custodia-labs/notefuse/internal/logger"
)

// EmbeddingStore embeds chunks and persists them as embedding records.
type EmbeddingStore struct {
	embedder     driven.EmbeddingService
	records      driven.EmbeddingRecordStore
	workers      int
	embedTimeout time.Duration
	now          func() time.Time
}

// NewEmbeddingStore creates an embedding store.
func NewEmbeddingStore(
	embedder driven.EmbeddingService,
	records driven.EmbeddingRecordStore,
	cfg domain.RetrievalConfig,
) *EmbeddingStore {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	timeout := cfg.EmbedTimeout
	if timeout <= 0 {
		timeout = domain.DefaultEmbedTimeout
	}
	return &EmbeddingStore{
		embedder:     embedder,
		records:      records,
		workers:      workers,
		embedTimeout: timeout,
		now:          time.Now,
	}
}

// Save embeds every chunk (one provider call per chunk) and writes one
// record each. Chunks are processed concurrently and written in any order.
//
// The first failure cancels the chunks not yet started. Records already
// written stay in place; the returned *domain.IndexError reports how many.
func (s *EmbeddingStore) Save(ctx context.Context, resourceID, resourceType string, chunks []string) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	if s.embedder == nil {
		return 0, &domain.IndexError{Err: domain.ErrEmbeddingUnavailable}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool, err := ants.NewPool(min(s.workers, len(chunks)))
	if err != nil {
		return 0, fmt.Errorf("create embedding pool: %w", err)
	}
	defer pool.Release()

	var (
		wg        sync.WaitGroup
		persisted atomic.Int64
		dims      atomic.Int64
		failOnce  sync.Once
		firstErr  error
	)
	fail := func(err error) {
		failOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	logger.Debug("Embedding %d chunks for %s/%s with %d workers",
		len(chunks), resourceType, resourceID, min(s.workers, len(chunks)))

	for i, chunk := range chunks {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			if err := s.saveChunk(ctx, resourceID, resourceType, chunk, &dims); err != nil {
				fail(fmt.Errorf("chunk %d: %w", i, err))
				return
			}
			persisted.Add(1)
		})
		if submitErr != nil {
			wg.Done()
			fail(fmt.Errorf("chunk %d: submit: %w", i, submitErr))
			break
		}
	}
	wg.Wait()

	n := int(persisted.Load())
	if firstErr == nil && n < len(chunks) {
		// Cancelled by the caller before every chunk ran.
		firstErr = fmt.Errorf("%w: %w", domain.ErrEmbeddingGenerationFailed, context.Cause(ctx))
	}
	if firstErr != nil {
		logger.Warn("Indexing %s/%s stopped after %d of %d chunks: %v",
			resourceType, resourceID, n, len(chunks), firstErr)
		return n, &domain.IndexError{Persisted: n, Err: firstErr}
	}

	logger.Debug("Persisted %d records for %s/%s", n, resourceType, resourceID)
	return n, nil
}

func (s *EmbeddingStore) saveChunk(
	ctx context.Context, resourceID, resourceType, chunk string, dims *atomic.Int64,
) error {
	vec, err := embedWithTimeout(ctx, s.embedder, chunk, s.embedTimeout)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingGenerationFailed, err)
	}

	// All vectors of one document must share a dimension.
	n := int64(len(vec))
	if !dims.CompareAndSwap(0, n) && dims.Load() != n {
		return fmt.Errorf("%w: %w: got %d, want %d",
			domain.ErrEmbeddingGenerationFailed, domain.ErrDimensionMismatch, n, dims.Load())
	}

	_, err = s.records.Insert(ctx, domain.EmbeddingRecord{
		ResourceID:   resourceID,
		ResourceType: resourceType,
		Content:      chunk,
		Vector:       vec,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// DeleteByResource removes every record owned by a resource.
func (s *EmbeddingStore) DeleteByResource(ctx context.Context, resourceID, resourceType string) (int, error) {
	n, err := s.records.DeleteByResource(ctx, resourceID, resourceType)
	if err != nil {
		return 0, fmt.Errorf("delete records for %s/%s: %w", resourceType, resourceID, err)
	}
	return n, nil
}
