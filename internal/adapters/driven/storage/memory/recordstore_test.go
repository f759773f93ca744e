package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

func TestRecordStore_InsertAssignsID(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	id, err := store.Insert(ctx, domain.EmbeddingRecord{ResourceID: "1", ResourceType: "note", Vector: []float32{1}})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	id2, err := store.Insert(ctx, domain.EmbeddingRecord{ID: "fixed", ResourceID: "1", ResourceType: "note"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", id2)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRecordStore_InsertCopiesVector(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	vec := []float32{1, 2}

	_, err := store.Insert(ctx, domain.EmbeddingRecord{ResourceID: "1", ResourceType: "note", Vector: vec})
	require.NoError(t, err)
	vec[0] = 99

	all, err := store.ListAll(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, all[0].Vector)
}

func TestRecordStore_ListAll_Limit(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	for _, c := range []string{"a", "b", "c"} {
		_, err := store.Insert(ctx, domain.EmbeddingRecord{ResourceID: c, ResourceType: "note", Content: c})
		require.NoError(t, err)
	}

	two, err := store.ListAll(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "a", two[0].Content)
	assert.Equal(t, "b", two[1].Content)

	all, err := store.ListAll(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecordStore_ByResource(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	for _, r := range []domain.EmbeddingRecord{
		{ResourceID: "1", ResourceType: "note", Content: "one"},
		{ResourceID: "1", ResourceType: "task", Content: "other type"},
		{ResourceID: "1", ResourceType: "note", Content: "two"},
		{ResourceID: "2", ResourceType: "note", Content: "other id"},
	} {
		_, err := store.Insert(ctx, r)
		require.NoError(t, err)
	}

	recs, err := store.ListByResource(ctx, "1", "note")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "one", recs[0].Content)
	assert.Equal(t, "two", recs[1].Content)

	removed, err := store.DeleteByResource(ctx, "1", "note")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	removed, err = store.DeleteByResource(ctx, "1", "note")
	require.NoError(t, err)
	assert.Zero(t, removed)

	rest, err := store.ListAll(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "other type", rest[0].Content)
	assert.Equal(t, "other id", rest[1].Content)
}
