// Package badger provides a BadgerDB implementation of driven.EmbeddingRecordStore.
//
// Records are stored as JSON values under keys ordered by a BadgerDB
// sequence, so prefix iteration yields insertion order. A secondary index
// keyed by resource makes ListByResource and DeleteByResource proportional
// to the records of one resource.
//
// Documents are not kept here; pair this store with a document store
// (SQLite by default) for enrichment and lexical search.
package badger
