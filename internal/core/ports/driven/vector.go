package driven

import (
	"context"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// VectorIndex provides top-K similarity search over embedding records.
// Results are ordered by descending similarity; ties keep the index's
// natural order. The Document field of each match is left nil.
type VectorIndex interface {
	// Search finds at most k records most similar to the query vector.
	Search(ctx context.Context, query []float32, k int) ([]domain.VectorMatch, error)
}
