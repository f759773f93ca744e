package driving

import (
	"context"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// DocumentService manages stored documents and keeps their embedding
// records in step.
type DocumentService interface {
	// Save creates or updates a document without reindexing it.
	Save(ctx context.Context, doc domain.Document) error

	// Ingest saves the document and reindexes its title and body.
	// Returns the number of records written.
	Ingest(ctx context.Context, doc domain.Document) (int, error)

	// Get retrieves a document.
	Get(ctx context.Context, resourceID, resourceType string) (*domain.Document, error)

	// List returns documents of a type, or all documents when resourceType is empty.
	List(ctx context.Context, resourceType string) ([]domain.Document, error)

	// Delete removes the document and then its embedding records.
	// Returns the number of records removed.
	Delete(ctx context.Context, resourceID, resourceType string) (int, error)
}
