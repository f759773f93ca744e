package driven

import (
	"context"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// AIConfigValidator checks that an embedding configuration can reach its provider.
type AIConfigValidator interface {
	// ValidateEmbedding creates the configured service and pings it.
	ValidateEmbedding(ctx context.Context, config *domain.EmbeddingSettings) error
}
