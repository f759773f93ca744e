package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notefuse/internal/adapters/driven/embedding/hashed"
	"github.com/custodia-labs/notefuse/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/services"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	docs := memory.NewDocumentStore()
	retrieval, err := services.NewRetrievalService(
		hashed.NewEmbeddingService(64),
		memory.NewRecordStore(),
		nil,
		nil,
		docs,
		domain.DefaultRetrievalConfig(),
	)
	require.NoError(t, err)
	documents := services.NewDocumentService(docs, retrieval)

	ctx := context.Background()
	for _, doc := range []domain.Document{
		{ResourceID: "n1", ResourceType: "note", Title: "Lisbon trip", Body: "Flights to Lisbon are booked for May."},
		{ResourceID: "n2", ResourceType: "note", Title: "Garden", Body: "Plant tomatoes after the last frost."},
	} {
		_, err := documents.Ingest(ctx, doc)
		require.NoError(t, err)
	}

	app, err := NewApp(&Ports{Retrieval: retrieval, Document: documents})
	require.NoError(t, err)
	app.WithContext(ctx).Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app
}

// drain runs cmd and follows the commands produced by the app's own
// messages. Batches are expanded; framework messages such as cursor blinks
// are dropped so the loop ends.
func drain(app *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch m := msg.(type) {
	case tea.BatchMsg:
		for _, c := range m {
			drain(app, c)
		}
	case messages.SearchCompleted, messages.RelatedCompleted, messages.OpenResult,
		messages.DocumentLoaded, messages.RelatedRequested, messages.ViewChanged,
		messages.ErrorOccurred:
		_, next := app.Update(m)
		drain(app, next)
	}
}

func TestNewApp_RequiresRetrieval(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.Nil(t, app)
	assert.ErrorIs(t, err, ErrMissingRetrievalService)

	_, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrMissingRetrievalService)
}

func TestApp_StartsOnSearch(t *testing.T) {
	app := newTestApp(t)

	assert.True(t, app.Ready())
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Contains(t, app.View(), "notefuse")
}

func TestApp_NotReadyBeforeSizing(t *testing.T) {
	app, err := NewApp(&Ports{Retrieval: newTestApp(t).ports.Retrieval})
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_SearchOpenAndBack(t *testing.T) {
	app := newTestApp(t)

	drain(app, app.SearchView().Search("lisbon flights"))
	results := app.SearchView().Results()
	require.Len(t, results, 2)
	assert.Equal(t, "n1", results[0].ResourceID)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(app, cmd)

	assert.Equal(t, messages.ViewReader, app.CurrentView())
	require.NotNil(t, app.ReaderView().Document())
	assert.Equal(t, "Lisbon trip", app.ReaderView().Document().Title)
	assert.Contains(t, app.View(), "booked for May")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	drain(app, cmd)
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_RelatedFromReader(t *testing.T) {
	app := newTestApp(t)
	drain(app, app.SearchView().Search("lisbon"))
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(app, cmd)

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	drain(app, cmd)

	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	require.NotNil(t, app.SearchView().RelatedTo())
	related := app.SearchView().Results()
	require.Len(t, related, 1)
	assert.Equal(t, "n2", related[0].ResourceID, "the source note is excluded")
}

func TestApp_InitialQuery(t *testing.T) {
	app := newTestApp(t).WithLimit(1).WithQuery("  garden tomatoes ")

	drain(app, app.Init())

	assert.Equal(t, "garden tomatoes", app.SearchView().LastQuery())
	assert.Len(t, app.SearchView().Results(), 1)
}

func TestApp_HelpView(t *testing.T) {
	app := newTestApp(t)
	drain(app, app.SearchView().Search("lisbon"))

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	drain(app, cmd)
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "related")

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
