package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// setupTestStore connects to the database named by NOTEFUSE_TEST_POSTGRES_DSN
// and empties the tables. Tests are skipped when it is unset.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("NOTEFUSE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("NOTEFUSE_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	store, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.pool.Exec(ctx, `TRUNCATE documents, embedding_records RESTART IDENTITY`)
	require.NoError(t, err)
	return store
}

func TestIsZero(t *testing.T) {
	assert.True(t, isZero([]float32{0, 0, 0}))
	assert.True(t, isZero(nil))
	assert.False(t, isZero([]float32{0, 0.1}))
}

func TestStore_Documents(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, domain.Document{
		ResourceID: "n1", ResourceType: "note", Title: "Apple", Body: "red fruit",
		Metadata: map[string]any{"tag": "food"},
	}))
	require.NoError(t, store.SaveDocument(ctx, domain.Document{
		ResourceID: "n2", ResourceType: "note", Title: "Car", Body: "fast engine",
	}))

	got, err := store.GetDocument(ctx, "n1", "note")
	require.NoError(t, err)
	assert.Equal(t, "Apple", got.Title)
	assert.Equal(t, "food", got.Metadata["tag"])

	_, err = store.GetDocument(ctx, "n1", "task")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Upsert keeps natural order.
	require.NoError(t, store.SaveDocument(ctx, domain.Document{
		ResourceID: "n1", ResourceType: "note", Title: "Apple", Body: "green fruit",
	}))
	docs, err := store.ListDocuments(ctx, "")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "n1", docs[0].ResourceID)
	assert.Equal(t, "green fruit", docs[0].Body)

	hits, err := store.SearchText(ctx, "APPLE", false, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hits, err = store.SearchText(ctx, "APPLE", true, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, store.DeleteDocument(ctx, "n1", "note"))
	require.NoError(t, store.DeleteDocument(ctx, "n1", "note"))
	docs, err = store.ListDocuments(ctx, "note")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestStore_RecordsAndSearch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	insert := func(id string, vec ...float32) {
		t.Helper()
		_, err := store.Insert(ctx, domain.EmbeddingRecord{
			ResourceID: id, ResourceType: "note", Content: id, Vector: vec,
		})
		require.NoError(t, err)
	}
	insert("a", 1, 0, 0)
	insert("b", 0, 1, 0)
	insert("c", 1, 1, 0)
	insert("d", 1, 0) // different dimension

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	matches, err := store.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].Record.ResourceID)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-6)
	assert.Equal(t, "c", matches[1].Record.ResourceID)
	assert.Equal(t, []float32{1, 1, 0}, matches[1].Record.Vector)

	zero, err := store.Search(ctx, []float32{0, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, zero, 3)
	assert.Equal(t, "a", zero[0].Record.ResourceID)
	assert.Zero(t, zero[0].Similarity)

	removed, err := store.DeleteByResource(ctx, "a", "note")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	all, err := store.ListAll(ctx, -1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
