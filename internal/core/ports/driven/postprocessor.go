package driven

// Chunker splits text into overlapping windows ready for embedding.
type Chunker interface {
	// Chunk splits text. Empty text yields no chunks.
	Chunk(text string) []string

	// ChunkSize returns the window length in characters.
	ChunkSize() int

	// Overlap returns the number of characters shared by consecutive chunks.
	Overlap() int
}
