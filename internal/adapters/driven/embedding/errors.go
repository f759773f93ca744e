package embedding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is kept in messages.
const maxErrorBody = 512

// ProviderError is a non-success response from an embedding provider.
// A 429 matches both domain.ErrRateLimited and domain.ErrEmbeddingProvider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string

	// RetryAfter is the provider's requested backoff, zero when unknown.
	RetryAfter time.Duration
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: API returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: API returned status %d: %s", e.Provider, e.StatusCode, e.Message)
}

func (e *ProviderError) Unwrap() []error {
	if e.StatusCode == http.StatusTooManyRequests {
		return []error{domain.ErrRateLimited, domain.ErrEmbeddingProvider}
	}
	return []error{domain.ErrEmbeddingProvider}
}

// FromResponse builds a ProviderError from a non-success HTTP response.
// It consumes the body but does not close it.
func FromResponse(provider string, resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))
	if err != nil {
		msg = "failed to read body: " + err.Error()
	}
	return &ProviderError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Message:    msg,
		RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

// Classify maps a transport error onto the domain errors.
// Deadlines become domain.ErrTimeout, cancellation is passed through,
// and everything else becomes domain.ErrEmbeddingProvider.
func Classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmbeddingProvider) || errors.Is(err, domain.ErrTimeout) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", provider, err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s: %w: %w", provider, domain.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", provider, domain.ErrEmbeddingProvider, err)
}

// ParseRetryAfter reads a Retry-After header given in seconds or as an HTTP date.
func ParseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// RetryAfter returns the backoff requested by a rate-limited provider, if any.
func RetryAfter(err error) time.Duration {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.RetryAfter
	}
	return 0
}
