package driven

import (
	"context"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// EmbeddingRecordStore persists embedding records.
// Records are append-only; the only mutation is deletion by owning resource.
type EmbeddingRecordStore interface {
	// Insert persists a record and returns its ID.
	// An empty record ID is assigned by the store.
	Insert(ctx context.Context, record domain.EmbeddingRecord) (string, error)

	// ListAll returns at most limit records in the store's natural order.
	ListAll(ctx context.Context, limit int) ([]domain.EmbeddingRecord, error)

	// ListByResource returns every record owned by a resource.
	ListByResource(ctx context.Context, resourceID, resourceType string) ([]domain.EmbeddingRecord, error)

	// DeleteByResource removes every record owned by a resource and
	// returns how many were removed.
	DeleteByResource(ctx context.Context, resourceID, resourceType string) (int, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
