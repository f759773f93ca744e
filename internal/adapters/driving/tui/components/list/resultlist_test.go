package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

func sampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			ResourceID: "n1", ResourceType: "note", Score: 0.0328,
			Document: &domain.Document{ResourceID: "n1", ResourceType: "note", Title: "Travel plans"},
			Snippet:  "Flights to Lisbon\nin   May",
		},
		{ResourceID: "n2", ResourceType: "note", Score: 0.0161},
		{
			ResourceID: "m1", ResourceType: "meeting", Score: 0.0159,
			Document: &domain.Document{ResourceID: "m1", ResourceType: "meeting"},
		},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewResultList(t *testing.T) {
	l := NewResultList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.Equal(t, "Results", l.Heading())
	assert.Zero(t, l.Count())
	assert.Nil(t, l.SelectedResult())
	assert.Nil(t, l.Init())
	assert.Contains(t, l.View(), "No results")
}

func TestResultList_SetResults(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults("", sampleResults())
	l.SetSelected(2)

	l.SetResults("Related to note/n1", sampleResults()[:2])

	assert.Equal(t, "Related to note/n1", l.Heading())
	assert.Equal(t, 2, l.Count())
	assert.Equal(t, 0, l.Selected(), "selection resets")
}

func TestResultList_Navigation(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults("", sampleResults())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.Update(key("j"))
	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, l.Selected())

	l.MoveDown()
	assert.Equal(t, 2, l.Selected(), "stops at the last result")

	l.Update(key("k"))
	assert.Equal(t, 1, l.Selected())

	l.Update(key("G"))
	assert.Equal(t, 2, l.Selected())
	l.Update(key("g"))
	assert.Equal(t, 0, l.Selected())

	l.SetSelected(7)
	assert.Equal(t, 0, l.Selected())

	require.NotNil(t, l.SelectedResult())
	assert.Equal(t, "n1", l.SelectedResult().ResourceID)
}

func TestResultList_View(t *testing.T) {
	l := NewResultList(nil)
	l.SetDimensions(100, 40)
	l.SetResults("", sampleResults())

	view := l.View()

	assert.Contains(t, view, "Results (3)")
	assert.Contains(t, view, "Travel plans")
	assert.Contains(t, view, "note/n1")
	assert.Contains(t, view, "Flights to Lisbon in May")
	assert.Contains(t, view, "0.0328")
	assert.Contains(t, view, "meeting/m1")
}

func TestResultList_ViewScrollsWithSelection(t *testing.T) {
	l := NewResultList(nil)
	l.SetDimensions(80, 5) // one result visible
	l.SetResults("", sampleResults())

	l.SetSelected(2)
	view := l.View()

	assert.Contains(t, view, "meeting/m1")
	assert.NotContains(t, view, "note/n1")
}

func TestTitle(t *testing.T) {
	results := sampleResults()

	assert.Equal(t, "Travel plans", Title(results[0]))
	assert.Equal(t, "n2", Title(results[1]), "no document")
	assert.Equal(t, "m1", Title(results[2]), "untitled document")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "héllo w...", Truncate("héllo wörld, again", 10))
}
