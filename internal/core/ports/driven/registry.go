package driven

import (
	"context"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a file.
// It dispatches on MIME type, falling back to plain text.
type NormaliserRegistry interface {
	// Normalise extracts text from a raw document using the matching normaliser.
	// Returns domain.ErrUnsupportedType when nothing handles the MIME type.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}
