// Package ratelimit throttles calls to an embedding provider.
//
// A token bucket paces requests proactively. When the provider still answers
// 429, every caller backs off until the provider's Retry-After has passed.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/notefuse/internal/adapters/driven/embedding"
	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
	"github.com/custodia-labs/notefuse/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultBackoff is used after a 429 that carried no Retry-After.
const DefaultBackoff = 5 * time.Second

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size. Values below 1 become 1.
	BurstSize int
}

// EmbeddingService wraps another EmbeddingService with a rate limiter.
type EmbeddingService struct {
	driven.EmbeddingService

	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// Wrap returns inner throttled to cfg. A non-positive rate returns inner
// unchanged.
func Wrap(inner driven.EmbeddingService, cfg Config) driven.EmbeddingService {
	if cfg.RequestsPerSecond <= 0 {
		return inner
	}
	return New(inner, cfg)
}

// New creates a rate-limited embedding service.
func New(inner driven.EmbeddingService, cfg Config) *EmbeddingService {
	if cfg.BurstSize < 1 {
		cfg.BurstSize = 1
	}
	return &EmbeddingService{
		EmbeddingService: inner,
		limiter:          rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Embed waits for capacity, then calls the wrapped service.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.Wait(ctx); err != nil {
		return nil, err
	}

	vec, err := s.EmbeddingService.Embed(ctx, text)
	if errors.Is(err, domain.ErrRateLimited) {
		s.RecordRateLimit(embedding.RetryAfter(err))
	}
	return vec, err
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimit.
func (s *EmbeddingService) Wait(ctx context.Context) error {
	s.mu.Lock()
	retryAt := s.retryAt
	s.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return embedding.Classify("ratelimit", ctx.Err())
		case <-timer.C:
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		// rate.Limiter reports a wait longer than the deadline without
		// waiting, so the error is not a context error.
		if ctx.Err() == nil {
			return embedding.Classify("ratelimit", context.DeadlineExceeded)
		}
		return embedding.Classify("ratelimit", ctx.Err())
	}
	return nil
}

// RecordRateLimit pauses every caller for d, or DefaultBackoff when d is zero.
func (s *EmbeddingService) RecordRateLimit(d time.Duration) {
	if d <= 0 {
		d = DefaultBackoff
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	until := time.Now().Add(d)
	if until.After(s.retryAt) {
		s.retryAt = until
		logger.Debug("Embedding provider rate limited, backing off for %s", d)
	}
}

// Unwrap returns the wrapped service.
func (s *EmbeddingService) Unwrap() driven.EmbeddingService {
	return s.EmbeddingService
}
