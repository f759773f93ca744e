package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

func TestNewConfigValidator(t *testing.T) {
	require.NotNil(t, NewConfigValidator())
}

func TestConfigValidator_ValidateEmbedding(t *testing.T) {
	v := NewConfigValidator()
	ctx := context.Background()

	assert.NoError(t, v.ValidateEmbedding(ctx, &domain.EmbeddingSettings{Provider: domain.AIProviderHash}))
	assert.ErrorIs(t, v.ValidateEmbedding(ctx, nil), domain.ErrInvalidConfiguration)
	assert.ErrorIs(t, v.ValidateEmbedding(ctx, &domain.EmbeddingSettings{Provider: "nope"}), domain.ErrUnsupportedType)
}
