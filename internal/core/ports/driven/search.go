package driven

import (
	"context"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// LexicalIndex provides keyword matching over documents.
type LexicalIndex interface {
	// SearchText returns at most limit documents whose title or body contains
	// query as a substring, in the store's natural order.
	SearchText(ctx context.Context, query string, caseSensitive bool, limit int) ([]domain.Document, error)
}
