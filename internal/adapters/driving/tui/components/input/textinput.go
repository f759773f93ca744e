// Package input provides the query input component for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/styles"
)

const (
	queryCharLimit = 512
	minInputWidth  = 20
	labelWidth     = 10
)

// QueryInput wraps a bubbles textinput and remembers submitted queries.
type QueryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int

	history []string
	cursor  int
}

// NewQueryInput creates a focused query input.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Search notes..."
	ti.CharLimit = queryCharLimit
	ti.Width = 50
	ti.Focus()

	return &QueryInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init starts the cursor blinking.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key input. Up and down walk the query history.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && q.textinput.Focused() {
		//nolint:exhaustive // only history keys are intercepted
		switch km.Type {
		case tea.KeyUp:
			q.recall(-1)
			return q, nil
		case tea.KeyDown:
			q.recall(1)
			return q, nil
		}
	}

	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// Submit returns the trimmed query and records it in the history.
// Blank input returns "" and is not recorded.
func (q *QueryInput) Submit() string {
	query := strings.TrimSpace(q.textinput.Value())
	if query == "" {
		return ""
	}
	if n := len(q.history); n == 0 || q.history[n-1] != query {
		q.history = append(q.history, query)
	}
	q.cursor = len(q.history)
	return query
}

func (q *QueryInput) recall(step int) {
	if len(q.history) == 0 {
		return
	}
	next := q.cursor + step
	switch {
	case next < 0:
		next = 0
	case next >= len(q.history):
		q.cursor = len(q.history)
		q.textinput.SetValue("")
		return
	}
	q.cursor = next
	q.textinput.SetValue(q.history[next])
	q.textinput.CursorEnd()
}

// View renders the label and input field.
func (q *QueryInput) View() string {
	label := q.styles.Title.Render("Search: ")
	field := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the library constant
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the raw input value.
func (q *QueryInput) Value() string {
	return q.textinput.Value()
}

// SetValue replaces the input value.
func (q *QueryInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// History returns the submitted queries, oldest first.
func (q *QueryInput) History() []string {
	return q.history
}

// Focus gives the input focus.
func (q *QueryInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus.
func (q *QueryInput) Blur() {
	q.textinput.Blur()
}

// Focused reports whether the input has focus.
func (q *QueryInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth resizes the input, leaving room for the label.
func (q *QueryInput) SetWidth(width int) {
	q.width = width
	q.textinput.Width = max(width-labelWidth, minInputWidth)
}

// Width returns the current width.
func (q *QueryInput) Width() int {
	return q.width
}
