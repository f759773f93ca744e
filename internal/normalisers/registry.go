package normalisers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
	"github.com/custodia-labs/notefuse/internal/normalisers/markdown"
	"github.com/custodia-labs/notefuse/internal/normalisers/pdf"
	"github.com/custodia-labs/notefuse/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps MIME types to normalisers.
type Registry struct {
	mu       sync.RWMutex
	byMIME   map[string]driven.Normaliser
	fallback driven.Normaliser
}

// NewRegistry creates an empty registry. A nil fallback means unknown MIME
// types are rejected.
func NewRegistry(fallback driven.Normaliser) *Registry {
	return &Registry{
		byMIME:   make(map[string]driven.Normaliser),
		fallback: fallback,
	}
}

// Default returns a registry with the plain text, Markdown and PDF
// normalisers, falling back to plain text.
func Default() *Registry {
	text := plaintext.New()
	r := NewRegistry(text)
	r.Register(text)
	r.Register(markdown.New())
	r.Register(pdf.New())
	return r
}

// Register adds a normaliser. A later registration for the same MIME type wins.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mt := range normaliser.SupportedMIMETypes() {
		r.byMIME[mt] = normaliser
	}
}

// Normalise extracts text using the normaliser registered for the MIME type.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	n, ok := r.byMIME[raw.MIMEType]
	if !ok {
		n = r.fallback
	}
	r.mu.RUnlock()

	if n == nil {
		return nil, fmt.Errorf("no normaliser for %q: %w", raw.MIMEType, domain.ErrUnsupportedType)
	}
	return n.Normalise(ctx, raw)
}

// SupportedMIMETypes returns all registered MIME types in sorted order.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byMIME))
	for mt := range r.byMIME {
		types = append(types, mt)
	}
	slices.Sort(types)
	return types
}

// ReadFile loads a file as a raw document, picking the MIME type from its extension.
func ReadFile(path string) (*domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &domain.RawDocument{
		URI:      path,
		MIMEType: domain.MIMETypeForExtension(filepath.Ext(path)),
		Content:  content,
	}, nil
}
