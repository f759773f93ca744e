package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

func TestDocumentStore_SaveGetDelete(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, domain.Document{ResourceID: "1", ResourceType: "note", Title: "First"}))

	doc, err := store.GetDocument(ctx, "1", "note")
	require.NoError(t, err)
	assert.Equal(t, "First", doc.Title)

	_, err = store.GetDocument(ctx, "1", "task")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.DeleteDocument(ctx, "1", "note"))
	_, err = store.GetDocument(ctx, "1", "note")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, store.DeleteDocument(ctx, "1", "note"), "deleting twice is not an error")
}

func TestDocumentStore_ListDocuments_InsertionOrder(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for _, d := range []domain.Document{
		{ResourceID: "b", ResourceType: "note"},
		{ResourceID: "a", ResourceType: "task"},
		{ResourceID: "c", ResourceType: "note"},
	} {
		require.NoError(t, store.SaveDocument(ctx, d))
	}
	// Updating keeps the original position.
	require.NoError(t, store.SaveDocument(ctx, domain.Document{ResourceID: "b", ResourceType: "note", Title: "updated"}))

	all, err := store.ListDocuments(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[0].ResourceID)
	assert.Equal(t, "updated", all[0].Title)

	notes, err := store.ListDocuments(ctx, "note")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "c", notes[1].ResourceID)
}

func TestDocumentStore_SearchText(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, domain.Document{ResourceID: "1", ResourceType: "note", Title: "Grocery List"}))
	require.NoError(t, store.SaveDocument(ctx, domain.Document{ResourceID: "2", ResourceType: "note", Body: "buy groceries"}))
	require.NoError(t, store.SaveDocument(ctx, domain.Document{ResourceID: "3", ResourceType: "note", Body: "unrelated"}))

	tests := []struct {
		name          string
		query         string
		caseSensitive bool
		limit         int
		want          []string
	}{
		{"case insensitive title and body", "grocer", false, 10, []string{"1", "2"}},
		{"case sensitive", "Grocer", true, 10, []string{"1"}},
		{"limit", "grocer", false, 1, []string{"1"}},
		{"no match", "zebra", false, 10, nil},
		{"empty query", "", false, 10, nil},
		{"zero limit", "grocer", false, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := store.SearchText(ctx, tt.query, tt.caseSensitive, tt.limit)
			require.NoError(t, err)
			var ids []string
			for _, d := range docs {
				ids = append(ids, d.ResourceID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
