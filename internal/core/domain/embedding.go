package domain

import "time"

// EmbeddingRecord is one persisted (chunk, vector) pair.
// Records are created in bulk when a document is indexed and never mutated.
type EmbeddingRecord struct {
	// ID is assigned at creation and is immutable.
	ID string

	// ResourceID is copied from the owning document.
	ResourceID string

	// ResourceType is copied from the owning document.
	ResourceType string

	// Content is the chunk text, stored verbatim for snippets.
	Content string

	// Vector is the embedding. Every record in a deployment shares one dimension.
	Vector []float32

	// CreatedAt is the immutable creation timestamp.
	CreatedAt time.Time
}

// Key returns the key of the resource that owns the record.
func (r EmbeddingRecord) Key() ResourceKey {
	return ResourceKey{Type: r.ResourceType, ID: r.ResourceID}
}

// Dimensions returns the vector length.
func (r EmbeddingRecord) Dimensions() int {
	return len(r.Vector)
}
