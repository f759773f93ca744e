// Package chunker splits document text into overlapping fixed-size chunks.
package chunker

import (
	"fmt"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Processor splits text into fixed-size windows that overlap by a fixed stride.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a chunker. It fails with domain.ErrInvalidConfiguration
// unless 0 <= overlap < chunkSize.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := validate(p.chunkSize, p.overlap); err != nil {
		return nil, err
	}
	return p, nil
}

// ChunkSize returns the configured window length.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Chunk splits text using the processor's configuration.
func (p *Processor) Chunk(text string) []string {
	return split([]rune(text), p.chunkSize, p.overlap)
}

// Count returns how many chunks a text of the given length in characters produces.
func (p *Processor) Count(length int) int {
	switch {
	case length <= 0:
		return 0
	case length <= p.chunkSize:
		return 1
	}
	stride := p.chunkSize - p.overlap
	return (length - p.overlap + stride - 1) / stride
}

// Split advances a window of size characters across text with stride
// size-overlap and returns every window. The final window may be shorter
// than size. Text no longer than size yields one chunk; empty text yields none.
// Characters are runes, so multi-byte text is never cut inside a code point.
func Split(text string, size, overlap int) ([]string, error) {
	if err := validate(size, overlap); err != nil {
		return nil, err
	}
	return split([]rune(text), size, overlap), nil
}

func split(runes []rune, size, overlap int) []string {
	n := len(runes)
	if n == 0 {
		return nil
	}

	stride := size - overlap
	chunks := make([]string, 0, n/stride+1)
	for start := 0; ; start += stride {
		end := min(start+size, n)
		chunks = append(chunks, string(runes[start:end]))
		if end == n {
			break
		}
	}
	return chunks
}

func validate(size, overlap int) error {
	if size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfiguration, size)
	}
	if overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", domain.ErrInvalidConfiguration, overlap)
	}
	if overlap >= size {
		return fmt.Errorf("%w: overlap %d must be less than chunk size %d",
			domain.ErrInvalidConfiguration, overlap, size)
	}
	return nil
}
