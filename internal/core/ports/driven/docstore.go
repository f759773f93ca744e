package driven

import (
	"context"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// DocumentStore persists documents.
// The search engine only reads through it; the CLI and HTTP surfaces write.
type DocumentStore interface {
	LexicalIndex

	// SaveDocument creates or updates a document.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// GetDocument retrieves a document. Returns domain.ErrNotFound if absent.
	GetDocument(ctx context.Context, resourceID, resourceType string) (*domain.Document, error)

	// DeleteDocument removes a document. Removing an absent document is not an error.
	DeleteDocument(ctx context.Context, resourceID, resourceType string) error

	// ListDocuments returns documents of a type, or all documents when
	// resourceType is empty, in natural order.
	ListDocuments(ctx context.Context, resourceType string) ([]domain.Document, error)
}
