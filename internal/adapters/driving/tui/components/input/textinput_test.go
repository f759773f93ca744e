package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/styles"
)

func typeText(q *QueryInput, text string) {
	for _, r := range text {
		q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewQueryInput(t *testing.T) {
	q := NewQueryInput(styles.DefaultStyles())

	require.NotNil(t, q)
	assert.Empty(t, q.Value())
	assert.True(t, q.Focused())
	assert.NotNil(t, q.Init())
}

func TestNewQueryInput_NilStyles(t *testing.T) {
	q := NewQueryInput(nil)

	assert.NotNil(t, q.styles)
}

func TestQueryInput_Typing(t *testing.T) {
	q := NewQueryInput(nil)

	typeText(q, "travel")

	assert.Equal(t, "travel", q.Value())
	assert.Contains(t, q.View(), "Search")
}

func TestQueryInput_Submit(t *testing.T) {
	q := NewQueryInput(nil)

	q.SetValue("  budget review  ")
	assert.Equal(t, "budget review", q.Submit())

	q.SetValue("   ")
	assert.Empty(t, q.Submit())

	q.SetValue("budget review")
	q.Submit()
	assert.Equal(t, []string{"budget review"}, q.History(), "repeated queries are not recorded twice")
}

func TestQueryInput_HistoryRecall(t *testing.T) {
	q := NewQueryInput(nil)
	q.SetValue("first")
	q.Submit()
	q.SetValue("second")
	q.Submit()
	q.SetValue("")

	q.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "second", q.Value())

	q.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "first", q.Value())

	q.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "first", q.Value(), "stays on the oldest entry")

	q.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "second", q.Value())

	q.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Empty(t, q.Value(), "walking past the newest entry clears the input")
}

func TestQueryInput_HistoryRecall_Empty(t *testing.T) {
	q := NewQueryInput(nil)
	q.SetValue("draft")

	q.Update(tea.KeyMsg{Type: tea.KeyUp})

	assert.Equal(t, "draft", q.Value())
}

func TestQueryInput_FocusAndBlur(t *testing.T) {
	q := NewQueryInput(nil)

	q.Blur()
	assert.False(t, q.Focused())

	q.Focus()
	assert.True(t, q.Focused())
}

func TestQueryInput_SetWidth(t *testing.T) {
	q := NewQueryInput(nil)

	q.SetWidth(100)
	assert.Equal(t, 100, q.Width())
	assert.Equal(t, 90, q.textinput.Width)

	q.SetWidth(15)
	assert.Equal(t, minInputWidth, q.textinput.Width)
}
