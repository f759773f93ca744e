// Package sqlite provides a SQLite-based implementation of the storage ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. One database file backs two stores:
//
//   - DocumentStore: documents plus substring (lexical) search via instr()
//   - RecordStore: embedding records with vectors packed as little-endian float32 blobs
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.notefuse/data/notefuse.db
//
// # Natural Order
//
// Both tables carry an AUTOINCREMENT seq column. Listing and lexical search
// return rows in seq order, so an updated document keeps its position.
//
// # Case Folding
//
// Case-insensitive lexical search folds with nf_lower, a scalar function
// registered on the driver that applies Unicode lowercasing.
package sqlite
