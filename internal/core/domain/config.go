package domain

import "time"

// Default retrieval parameters.
const (
	DefaultChunkSize         = 500
	DefaultChunkOverlap      = 50
	DefaultVectorWeight      = 1.0
	DefaultLexicalWeight     = 0.5
	DefaultCandidateCap      = 1000
	DefaultSearchLimit       = 10
	DefaultEmbedTimeout      = 30 * time.Second
	DefaultFetchTimeout      = 5 * time.Second
	DefaultIndexWorkers      = 4
	DefaultRelatedQueryChars = 2000
)

// RetrievalConfig holds the tunables of the search engine.
type RetrievalConfig struct {
	// ChunkSize is the chunk window length in characters.
	ChunkSize int `validate:"gt=0"`

	// Overlap is the number of characters shared by consecutive chunks.
	// Must be strictly less than ChunkSize.
	Overlap int `validate:"gte=0,ltfield=ChunkSize"`

	// VectorWeight scales the vector half of the fused score.
	VectorWeight float64 `validate:"gte=0"`

	// LexicalWeight scales the lexical half of the fused score.
	LexicalWeight float64 `validate:"gte=0"`

	// CandidateCap bounds the records scanned by brute-force vector search.
	CandidateCap int `validate:"gt=0"`

	// DefaultLimit is used when a search is issued with a non-positive limit.
	DefaultLimit int `validate:"gt=0"`

	// CaseSensitive switches lexical matching to exact case.
	CaseSensitive bool

	// KnownResourceTypes restricts enrichment to these kinds. Empty means all.
	KnownResourceTypes []string

	// EmbedTimeout bounds each embedding provider call.
	EmbedTimeout time.Duration `validate:"gt=0"`

	// FetchTimeout bounds each document store fetch during enrichment.
	FetchTimeout time.Duration `validate:"gt=0"`

	// Workers is the number of chunks embedded concurrently during indexing.
	Workers int `validate:"gt=0"`

	// RelatedQueryChars truncates the query text used by RelatedTo.
	RelatedQueryChars int `validate:"gt=0"`
}

// DefaultRetrievalConfig returns the documented defaults.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		ChunkSize:         DefaultChunkSize,
		Overlap:           DefaultChunkOverlap,
		VectorWeight:      DefaultVectorWeight,
		LexicalWeight:     DefaultLexicalWeight,
		CandidateCap:      DefaultCandidateCap,
		DefaultLimit:      DefaultSearchLimit,
		EmbedTimeout:      DefaultEmbedTimeout,
		FetchTimeout:      DefaultFetchTimeout,
		Workers:           DefaultIndexWorkers,
		RelatedQueryChars: DefaultRelatedQueryChars,
	}
}

// IsKnownType reports whether documents of the given type should be enriched.
func (c RetrievalConfig) IsKnownType(resourceType string) bool {
	if len(c.KnownResourceTypes) == 0 {
		return true
	}
	for _, t := range c.KnownResourceTypes {
		if t == resourceType {
			return true
		}
	}
	return false
}
