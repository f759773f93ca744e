// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/notefuse/internal/adapters/driven/embedding/compat"
	"github.com/custodia-labs/notefuse/internal/adapters/driven/embedding/hashed"
	ollamaembed "github.com/custodia-labs/notefuse/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/notefuse/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/notefuse/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/notefuse/internal/adapters/driven/embedding/retry"
	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'notefuse config set embedding.provider <name>' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(ctx context.Context, settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(pingCtx)
}

// CreateEmbeddingService creates the embedding service for the settings,
// wrapped with the rate limiter and retry decorators they enable.
// The retry decorator is outermost so every attempt passes the limiter.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("no embedding settings: %w", domain.ErrInvalidConfiguration)
	}
	if !settings.Provider.IsValid() {
		return nil, fmt.Errorf("embedding provider %q: %w", settings.Provider, domain.ErrUnsupportedType)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%s requires an API key: %w", settings.Provider, domain.ErrInvalidConfiguration)
	}

	svc, err := createProvider(settings)
	if err != nil {
		return nil, err
	}

	svc = ratelimit.Wrap(svc, ratelimit.Config{
		RequestsPerSecond: settings.RequestsPerSecond,
		BurstSize:         settings.Burst,
	})
	return retry.Wrap(svc, settings.MaxRetries), nil
}

func createProvider(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	case domain.AIProviderCompat:
		return compat.NewEmbeddingService(compat.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			APIKey:     settings.APIKey,
			Dimensions: settings.Dimensions,
		})

	case domain.AIProviderHash:
		return hashed.NewEmbeddingService(settings.Dimensions), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider %s: %w", settings.Provider, domain.ErrUnsupportedType)
	}
}
