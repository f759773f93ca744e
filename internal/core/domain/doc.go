// Package domain defines the core business entities for notefuse.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A resource owned by the document store (meeting note, transcript)
//   - EmbeddingRecord: One persisted chunk of a document with its vector
//   - VectorMatch, SearchResult, SearchResponse: Ephemeral per-query values
//   - RetrievalConfig, Settings: Tunables and application settings
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
