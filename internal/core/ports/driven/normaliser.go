package driven

import (
	"context"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// Normaliser extracts a title and plain text body from raw file bytes.
// Each normaliser handles specific MIME types (e.g., PDF, Markdown).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Normalise converts raw bytes into a document with Title and Body set.
	// Resource identity is left to the caller.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)
}
