package domain

// VectorMatch is an embedding record scored against a query vector.
type VectorMatch struct {
	// Record is the matched embedding record.
	Record EmbeddingRecord

	// Similarity is the cosine similarity to the query, in [-1, 1].
	Similarity float64

	// Document is the enriched owning document.
	// Nil when the document no longer exists or its type is not fetched.
	Document *Document
}

// SearchResult is a single fused hit for one resource.
type SearchResult struct {
	// ResourceID identifies the matched resource.
	ResourceID string

	// ResourceType is the kind of the matched resource.
	ResourceType string

	// Score is the fused rank score. It is not a probability.
	Score float64

	// Document is the enriched document payload, nil if it was deleted
	// after indexing.
	Document *Document

	// Snippet is the best matching chunk text, if the hit came from vector search.
	Snippet string
}

// Key returns the resource key of the result.
func (r SearchResult) Key() ResourceKey {
	return ResourceKey{Type: r.ResourceType, ID: r.ResourceID}
}

// SearchResponse is the outcome of a hybrid search.
// An empty Results slice with Degraded false means "no matches";
// Degraded true means one half of the search failed and the results
// come from the other half only.
type SearchResponse struct {
	// Query is the query text as received.
	Query string

	// Results is the fused, ranked result list.
	Results []SearchResult

	// Degraded is set when vector or lexical search failed.
	Degraded bool

	// Warnings explains why the response is degraded.
	Warnings []string
}
