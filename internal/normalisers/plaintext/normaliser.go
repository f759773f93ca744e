// Package plaintext normalises plain text files. It is the registry's fallback.
package plaintext

import (
	"context"
	"maps"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/yaml",
		"text/toml",
		"text/x-go",
		"text/x-python",
		"text/x-shellscript",
		"application/json",
		"application/xml",
	}
}

// Normalise returns the content as the body. Invalid UTF-8 is replaced and
// Windows line endings are folded.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	body := string(raw.Content)
	if !utf8.ValidString(body) {
		body = strings.ToValidUTF8(body, "�")
	}
	body = strings.ReplaceAll(body, "\r\n", "\n")

	metadata := maps.Clone(raw.Metadata)
	if metadata == nil {
		metadata = make(map[string]any)
	}
	metadata["mime_type"] = raw.MIMEType

	return &domain.Document{
		Title:    titleFromMetadataOrURI(raw),
		Body:     strings.TrimSpace(body),
		Metadata: metadata,
	}, nil
}

// titleFromMetadataOrURI prefers a caller-supplied title, then the file name.
func titleFromMetadataOrURI(raw *domain.RawDocument) string {
	if title, ok := raw.Metadata["title"].(string); ok && title != "" {
		return title
	}
	return titleFromURI(raw.URI)
}

// titleFromURI turns "notes/weekly_sync-2024.txt" into "weekly sync 2024".
func titleFromURI(uri string) string {
	if uri == "" {
		return ""
	}
	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
