// Package retry retries embedding calls that failed with a retryable error.
package retry

import (
	"context"
	"time"

	"github.com/custodia-labs/notefuse/internal/adapters/driven/embedding"
	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
	"github.com/custodia-labs/notefuse/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default backoff bounds.
const (
	DefaultBaseDelay = 250 * time.Millisecond
	DefaultMaxDelay  = 10 * time.Second
)

// EmbeddingService retries the wrapped service with exponential backoff.
// Only errors for which domain.IsRetryable holds are retried.
type EmbeddingService struct {
	driven.EmbeddingService

	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// Option configures the retry decorator.
type Option func(*EmbeddingService)

// WithBackoff sets the first delay and the delay cap.
func WithBackoff(base, maxDelay time.Duration) Option {
	return func(s *EmbeddingService) {
		if base > 0 {
			s.baseDelay = base
		}
		if maxDelay > 0 {
			s.maxDelay = maxDelay
		}
	}
}

// Wrap returns inner with retries. Zero or negative maxRetries returns
// inner unchanged, leaving retry decisions to the caller.
func Wrap(inner driven.EmbeddingService, maxRetries int, opts ...Option) driven.EmbeddingService {
	if maxRetries <= 0 {
		return inner
	}
	s := &EmbeddingService{
		EmbeddingService: inner,
		maxRetries:       maxRetries,
		baseDelay:        DefaultBaseDelay,
		maxDelay:         DefaultMaxDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Embed calls the wrapped service, retrying retryable failures.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			delay := s.delay(attempt, lastErr)
			logger.Debug("Retrying embedding (attempt %d/%d) in %s: %v", attempt, s.maxRetries, delay, lastErr)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, lastErr
			case <-timer.C:
			}
		}

		vec, err := s.EmbeddingService.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		if !domain.IsRetryable(err) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// delay doubles from baseDelay per attempt up to maxDelay. A provider's
// Retry-After wins when it is longer.
func (s *EmbeddingService) delay(attempt int, err error) time.Duration {
	d := s.baseDelay
	for i := 1; i < attempt && d < s.maxDelay; i++ {
		d *= 2
	}
	d = min(d, s.maxDelay)
	if ra := embedding.RetryAfter(err); ra > d {
		d = min(ra, s.maxDelay)
	}
	return d
}

// Unwrap returns the wrapped service.
func (s *EmbeddingService) Unwrap() driven.EmbeddingService {
	return s.EmbeddingService
}
