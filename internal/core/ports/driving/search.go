package driving

import (
	"context"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// RetrievalService is the single entry point to the search engine.
type RetrievalService interface {
	// Index chunks and embeds text for a resource and returns the number of
	// records written. Indexing appends; existing records are kept.
	// A partial failure returns a *domain.IndexError carrying the persisted count.
	Index(ctx context.Context, resourceID, resourceType, text string) (int, error)

	// Reindex removes the resource's records and then indexes text.
	Reindex(ctx context.Context, resourceID, resourceType, text string) (int, error)

	// Remove deletes every record owned by a resource and returns the count.
	Remove(ctx context.Context, resourceID, resourceType string) (int, error)

	// Search runs vector and lexical search and fuses the rankings.
	// A failure of one half yields a degraded response, not an error.
	Search(ctx context.Context, query string, limit int) (*domain.SearchResponse, error)

	// RelatedTo finds resources similar to the given one, excluding itself.
	RelatedTo(ctx context.Context, resourceID, resourceType string, limit int) ([]domain.SearchResult, error)
}
