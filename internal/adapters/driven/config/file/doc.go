// Package file provides the file-based configuration store.
//
// Configuration lives in config.toml (or config.yaml when that file exists)
// inside the notefuse home directory. Nested tables are flattened into
// dot-notation keys such as "retrieval.chunk_size". A fixed set of
// environment variables overrides file values without being written back.
package file
