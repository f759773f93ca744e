// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driving"
)

// DefaultLimit is the number of results requested per search.
const DefaultLimit = 20

// ErrNoRetrievalService indicates that no retrieval service was provided.
var ErrNoRetrievalService = errors.New("retrieval service is required")

// View is the search view: query input, ranked results and a status bar.
// Results can be swapped for the notes related to the selected result;
// esc returns to the last search.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	retrieval driving.RetrievalService
	ctx       context.Context
	limit     int

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
	warnings   []string

	lastQuery   string
	lastResults []domain.SearchResult
	related     *domain.ResourceKey
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, retrieval driving.RetrievalService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		retrieval:  retrieval,
		ctx:        context.Background(),
		limit:      DefaultLimit,
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context searches run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithLimit sets the number of results requested. Non-positive values are ignored.
func (v *View) WithLimit(limit int) *View {
	if limit > 0 {
		v.limit = limit
	}
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.RelatedCompleted:
		v.handleRelatedCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		switch msg.Type { //nolint:exhaustive // only submit and leave are special while typing
		case tea.KeyEnter:
			query := v.input.Submit()
			if query == "" {
				return v, nil
			}
			return v, v.Search(query)
		case tea.KeyEsc:
			if len(v.list.Results()) > 0 {
				v.focusResults()
			}
			return v, nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Open):
		if result := v.list.SelectedResult(); result != nil {
			r := *result
			return v, func() tea.Msg { return messages.OpenResult{Result: r} }
		}
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Related):
		if result := v.list.SelectedResult(); result != nil {
			return v, v.Related(result.Key())
		}
		return v, nil
	case keymap.Matches(keyStr, v.keymap.NewSearch):
		v.focusQuery()
		v.input.SetValue("")
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Back):
		if v.related != nil {
			v.restoreSearch()
			return v, nil
		}
		v.focusQuery()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, tea.Quit
	case keymap.Matches(keyStr, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// Search returns a command running query against the retrieval service.
func (v *View) Search(query string) tea.Cmd {
	v.statusbar.SetState(status.StateSearching)
	v.input.SetValue(query)
	retrieval, ctx, limit := v.retrieval, v.ctx, v.limit
	return func() tea.Msg {
		if retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		resp, err := retrieval.Search(ctx, query, limit)
		return messages.SearchCompleted{Query: query, Response: resp, Err: err}
	}
}

// Related returns a command loading the notes related to key.
func (v *View) Related(key domain.ResourceKey) tea.Cmd {
	v.statusbar.SetState(status.StateSearching)
	retrieval, ctx, limit := v.retrieval, v.ctx, v.limit
	return func() tea.Msg {
		if retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		results, err := retrieval.RelatedTo(ctx, key.ID, key.Type, limit)
		return messages.RelatedCompleted{Source: key, Results: results, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	var results []domain.SearchResult
	v.warnings = nil
	degraded := false
	if msg.Response != nil {
		results = msg.Response.Results
		v.warnings = msg.Response.Warnings
		degraded = msg.Response.Degraded
	}

	v.err = nil
	v.related = nil
	v.lastQuery = msg.Query
	v.lastResults = results
	v.list.SetResults("Results", results)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(results))
	if degraded {
		v.statusbar.SetState(status.StateDegraded)
	} else {
		v.statusbar.SetState(status.StateResults)
	}

	if len(results) > 0 {
		v.focusResults()
	}
}

func (v *View) handleRelatedCompleted(msg messages.RelatedCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	key := msg.Source
	v.err = nil
	v.warnings = nil
	v.related = &key
	v.list.SetResults("Related to "+key.String(), msg.Results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Results))
	v.statusbar.SetMessage(fmt.Sprintf("%d related notes", len(msg.Results)))
	v.focusResults()
}

func (v *View) restoreSearch() {
	v.related = nil
	v.list.SetResults("Results", v.lastResults)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(v.lastResults))
	v.statusbar.SetMessage("")
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) focusResults() {
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetHints(v.keymap.ResultsHelp())
}

func (v *View) focusQuery() {
	v.focusInput = true
	v.input.Focus()
	v.statusbar.SetHints(v.keymap.ShortHelp())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections, v.styles.Title.Render("notefuse"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	for _, w := range v.warnings {
		sections = append(sections, v.styles.Warning.Render("! "+w))
	}
	if len(v.warnings) > 0 {
		sections = append(sections, "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sizes the view and its components.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view has been sized.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current input value.
func (v *View) Query() string {
	return v.input.Value()
}

// LastQuery returns the query of the last completed search.
func (v *View) LastQuery() string {
	return v.lastQuery
}

// Results returns the results currently listed.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedResult returns the selected result, or nil.
func (v *View) SelectedResult() *domain.SearchResult {
	return v.list.SelectedResult()
}

// RelatedTo returns the key whose related notes are listed, or nil when
// the list shows search results.
func (v *View) RelatedTo() *domain.ResourceKey {
	return v.related
}

// Warnings returns the warnings of the last degraded search.
func (v *View) Warnings() []string {
	return v.warnings
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the query input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}
