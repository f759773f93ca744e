// Package postgres provides a PostgreSQL implementation of the storage ports
// using pgx and the pgvector extension.
//
// One Store serves as document store, embedding record store and native
// vector index. Similarity is computed in the database with pgvector's
// cosine distance operator (<=>), so candidate sets are not loaded into
// the process.
//
// The vector column carries no fixed dimension. Searches only consider
// records whose dimension matches the query.
package postgres
