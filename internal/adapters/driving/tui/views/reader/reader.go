// Package reader provides the note reader view for the TUI.
package reader

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driving"
)

// reservedLines is the chrome around the viewport: title, key, rule, footer.
const reservedLines = 6

// View shows one note in a scrollable viewport.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	documents driving.DocumentService
	ctx       context.Context

	key      domain.ResourceKey
	title    string
	document *domain.Document
	viewport viewport.Model

	width   int
	height  int
	loading bool
	err     error
}

// NewView creates a reader. documents may be nil, in which case only the
// document attached to the opened result is shown.
func NewView(s *styles.Styles, km *keymap.KeyMap, documents driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	v := &View{
		styles:    s,
		keymap:    km,
		documents: documents,
		ctx:       context.Background(),
		viewport:  viewport.New(80, 24-reservedLines),
		width:     80,
		height:    24,
	}
	return v
}

// WithContext sets the context document loads run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Open shows result and, when a document service is available, returns a
// command loading the stored document.
func (v *View) Open(result domain.SearchResult) tea.Cmd {
	v.key = result.Key()
	v.title = result.ResourceID
	v.document = result.Document
	v.err = nil
	v.loading = false
	if result.Document != nil && result.Document.Title != "" {
		v.title = result.Document.Title
	}
	v.render()

	if v.documents == nil {
		if v.document == nil {
			v.err = domain.ErrNotFound
		}
		return nil
	}

	v.loading = true
	documents, ctx, key := v.documents, v.ctx, v.key
	return func() tea.Msg {
		doc, err := documents.Get(ctx, key.ID, key.Type)
		return messages.DocumentLoaded{Key: key, Document: doc, Err: err}
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the reader.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.DocumentLoaded:
		if msg.Key != v.key {
			return v, nil
		}
		v.loading = false
		switch {
		case msg.Err == nil && msg.Document != nil:
			v.document = msg.Document
			if msg.Document.Title != "" {
				v.title = msg.Document.Title
			}
			v.err = nil
		case errors.Is(msg.Err, domain.ErrNotFound) && v.document != nil:
			// keep the copy attached to the search result
		case msg.Err != nil:
			v.err = msg.Err
		default:
			v.err = domain.ErrNotFound
		}
		v.render()
		return v, nil

	case tea.KeyMsg:
		keyStr := msg.String()
		switch {
		case keymap.Matches(keyStr, v.keymap.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSearch} }
		case keymap.Matches(keyStr, v.keymap.Related):
			key := v.key
			return v, func() tea.Msg { return messages.RelatedRequested{Key: key} }
		case keymap.Matches(keyStr, v.keymap.Quit):
			return v, tea.Quit
		case keyStr == "g" || keyStr == "home":
			v.viewport.GotoTop()
			return v, nil
		case keyStr == "G" || keyStr == "end":
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *View) render() {
	if v.document == nil {
		v.viewport.SetContent("")
		return
	}

	var b strings.Builder
	if meta := formatMetadata(v.document.Metadata); meta != "" {
		b.WriteString(v.styles.Muted.Render(meta))
		b.WriteString("\n\n")
	}
	body := v.document.Body
	if body == "" {
		body = v.document.IndexText()
	}
	b.WriteString(lipgloss.NewStyle().Width(max(v.width-2, 20)).Render(body))

	v.viewport.SetContent(b.String())
	v.viewport.GotoTop()
}

func formatMetadata(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = fmt.Sprintf("%s: %v", k, meta[k])
	}
	return strings.Join(lines, "\n")
}

// View renders the reader.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(v.title))
	b.WriteString("\n")
	b.WriteString(v.styles.Key.Render(v.key.String()))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(strings.Repeat("─", min(max(v.width-4, 10), 60))))
	b.WriteString("\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.document == nil && v.loading:
		b.WriteString(v.styles.Muted.Render("Loading note..."))
	case v.document == nil:
		b.WriteString(v.styles.Muted.Render("(No content)"))
	default:
		b.WriteString(v.viewport.View())
	}

	b.WriteString("\n")
	b.WriteString(v.renderFooter())
	return b.String()
}

func (v *View) renderFooter() string {
	hints := make([]string, 0, 5)
	if v.document != nil && v.viewport.TotalLineCount() > v.viewport.Height {
		hints = append(hints, fmt.Sprintf("%3.f%%", v.viewport.ScrollPercent()*100))
	}
	for _, binding := range v.keymap.ReaderHelp() {
		h := binding.Help()
		hints = append(hints, "["+h.Key+"] "+h.Desc)
	}
	return v.styles.Help.Render(strings.Join(hints, "  "))
}

// SetDimensions resizes the reader and rewraps the note.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-reservedLines, 1)
	v.render()
}

// Key returns the key of the open note.
func (v *View) Key() domain.ResourceKey {
	return v.key
}

// Document returns the document on display, or nil.
func (v *View) Document() *domain.Document {
	return v.document
}

// Loading reports whether a document load is outstanding.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.viewport.YOffset
}
