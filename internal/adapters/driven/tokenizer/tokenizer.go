// Package tokenizer counts tokens with tiktoken encodings so chunk sizes can
// be compared with provider input limits.
package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
)

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// DefaultEncoding is used by OpenAI's embedding models.
const DefaultEncoding = "cl100k_base"

// Counter counts tokens. The encoding is loaded on first use because
// tiktoken may need to fetch its BPE ranks.
type Counter struct {
	encoding string
	model    string

	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

// New creates a counter for a named encoding. Empty means DefaultEncoding.
func New(encoding string) *Counter {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &Counter{encoding: encoding}
}

// ForModel creates a counter using the encoding of a model, falling back to
// DefaultEncoding for models tiktoken does not know.
func ForModel(model string) *Counter {
	if _, ok := tiktoken.MODEL_TO_ENCODING[model]; ok {
		return &Counter{encoding: tiktoken.MODEL_TO_ENCODING[model], model: model}
	}
	return New(DefaultEncoding)
}

func (c *Counter) load() (*tiktoken.Tiktoken, error) {
	c.once.Do(func() {
		if c.model != "" {
			c.enc, c.err = tiktoken.EncodingForModel(c.model)
		} else {
			c.enc, c.err = tiktoken.GetEncoding(c.encoding)
		}
		if c.err != nil {
			c.err = fmt.Errorf("loading %s encoding: %w", c.encoding, c.err)
		}
	})
	return c.enc, c.err
}

// CountTokens returns the number of tokens text encodes to.
func (c *Counter) CountTokens(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	enc, err := c.load()
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// Encoding returns the encoding name.
func (c *Counter) Encoding() string {
	return c.encoding
}
