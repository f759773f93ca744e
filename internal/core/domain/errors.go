package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// During result enrichment it is recovered locally by attaching a nil document.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfiguration indicates bad chunking, fusion or limit parameters.
	// It is caller-correctable and never retried.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmbeddingProvider indicates a provider-side failure: rate limit,
	// malformed input or a network error. Safe to retry with backoff.
	ErrEmbeddingProvider = errors.New("embedding provider error")

	// ErrTimeout indicates an embedding call or document fetch ran out of time.
	// Treated the same as ErrEmbeddingProvider for retry purposes.
	ErrTimeout = errors.New("timeout")

	// ErrEmbeddingGenerationFailed indicates indexing stopped part way through a
	// document. Records written before the failure remain persisted.
	ErrEmbeddingGenerationFailed = errors.New("embedding generation failed")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the provider rejected the call for exceeding its rate limit.
	ErrRateLimited = errors.New("rate limited")

	// ErrDimensionMismatch indicates a vector whose length differs from the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrUnsupportedType indicates an unknown provider, backend or file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNotImplemented indicates functionality is not available in this build.
	ErrNotImplemented = errors.New("not implemented")
)

// IndexError reports a partially indexed document.
// Persisted is the number of records written before indexing stopped.
type IndexError struct {
	Persisted int
	Err       error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("indexing stopped after %d records: %v", e.Persisted, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// PersistedCount returns the number of records an indexing error left behind,
// or zero when err is not an IndexError.
func PersistedCount(err error) int {
	var ie *IndexError
	if errors.As(err, &ie) {
		return ie.Persisted
	}
	return 0
}

// IsRetryable reports whether the caller may retry the operation with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrEmbeddingProvider) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}
