// Package pdf extracts text from PDF files with a pure Go reader.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// maxTitleLength bounds a first line that is accepted as the title.
const maxTitleLength = 200

var spaceRuns = regexp.MustCompile(`[ \t]+`)

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Normalise extracts the plain text of every page. Scanned PDFs without a
// text layer yield domain.ErrInvalidInput.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, pages, err := extractText(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("pdf %s: %w", raw.URI, err)
	}
	if text == "" {
		return nil, fmt.Errorf("pdf %s: no text extracted: %w", raw.URI, domain.ErrInvalidInput)
	}

	metadata := maps.Clone(raw.Metadata)
	if metadata == nil {
		metadata = make(map[string]any)
	}
	metadata["mime_type"] = raw.MIMEType
	metadata["pages"] = pages

	title, _ := metadata["title"].(string)
	if title == "" {
		title = extractTitle(text, raw.URI)
	}

	return &domain.Document{
		Title:    title,
		Body:     text,
		Metadata: metadata,
	}, nil
}

// extractText returns the cleaned text and the page count. The reader may
// panic on malformed input, which is reported as an error.
func extractText(content []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v: %w", r, domain.ErrInvalidInput)
		}
	}()

	rdr, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", 0, fmt.Errorf("open: %w: %w", domain.ErrInvalidInput, err)
	}

	plain, err := rdr.GetPlainText()
	if err != nil {
		return "", 0, fmt.Errorf("read text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", 0, fmt.Errorf("read text: %w", err)
	}
	return cleanText(buf.String()), rdr.NumPage(), nil
}

// cleanText collapses runs of spaces and trims every line.
func cleanText(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractTitle uses the first short non-empty line, then the file name.
func extractTitle(content, uri string) string {
	for line := range strings.SplitSeq(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && len(line) <= maxTitleLength && !strings.ContainsRune(line, 0) {
			return line
		}
	}

	if uri == "" {
		return ""
	}
	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
