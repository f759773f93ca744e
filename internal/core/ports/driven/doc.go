// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Converts text into a fixed-dimension vector
//   - EmbeddingRecordStore: Persists embedding records (owned by this system)
//   - DocumentStore: Reads documents for enrichment (owned by the caller)
//   - LexicalIndex: Substring search over document titles and bodies
//
// # Swappable Interfaces
//
//   - VectorIndex: Top-K similarity search. The default is an exhaustive
//     scan over a bounded candidate set; a database-native or approximate
//     index can replace it without changing callers.
//
// # Supporting Interfaces
//
//   - ConfigStore: Application configuration
//   - Normaliser: Extracts text from files for the CLI and watcher
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
