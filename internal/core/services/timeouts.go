package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
)

// embedWithTimeout runs one embedding call under its own deadline and maps
// failures onto the domain error kinds.
func embedWithTimeout(
	ctx context.Context, embedder driven.EmbeddingService, text string, timeout time.Duration,
) ([]float32, error) {
	if embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	vec, err := embedder.Embed(callCtx, text)
	if err != nil {
		return nil, classifyCallError(callCtx, err, domain.ErrEmbeddingProvider)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: %s returned an empty vector", domain.ErrEmbeddingProvider, embedder.ModelName())
	}
	return vec, nil
}

// fetchDocument reads a document under its own deadline.
// A missing document is not an error: it yields nil.
func fetchDocument(
	ctx context.Context, docs driven.DocumentStore, key domain.ResourceKey, timeout time.Duration,
) (*domain.Document, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	doc, err := docs.GetDocument(callCtx, key.ID, key.Type)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classifyCallError(callCtx, err, nil)
	}
	return doc, nil
}

// classifyCallError maps deadline overruns to domain.ErrTimeout and wraps
// anything unclassified with kind, when given.
func classifyCallError(callCtx context.Context, err error, kind error) error {
	switch {
	case errors.Is(err, domain.ErrTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	case kind != nil && !errors.Is(err, kind):
		return fmt.Errorf("%w: %w", kind, err)
	default:
		return err
	}
}
