// Package list provides the result list component for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// linesPerResult is the rendered height of one result: title, key, snippet.
const linesPerResult = 3

// ResultList displays ranked results in a navigable list.
type ResultList struct {
	heading  string
	results  []domain.SearchResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates an empty result list.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{
		heading: "Results",
		styles:  s,
		width:   80,
		height:  10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation keys.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			r.selected = max(len(r.results)-1, 0)
		}
	}
	return r, nil
}

// View renders the visible window of results around the selection.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.results)*linesPerResult+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", r.heading, len(r.results))), "")

	start, end := r.window()
	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, r.results[i]))
	}
	return strings.Join(lines, "\n")
}

func (r *ResultList) window() (int, int) {
	visible := max((r.height-2)/linesPerResult, 1)
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	return start, min(start+visible, len(r.results))
}

func (r *ResultList) renderResult(index int, result domain.SearchResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	titleWidth := max(r.width-16, 10)
	title := Truncate(Title(result), titleWidth)
	score := fmt.Sprintf("%.4f", result.Score)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, titleWidth, title, score))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, titleWidth, title)) +
			r.styles.Score.Render(score)
	}

	keyLine := r.styles.Key.Render("    " + result.Key().String())
	snippet := Truncate(strings.Join(strings.Fields(result.Snippet), " "), max(r.width-6, 20))
	return titleLine + "\n" + keyLine + "\n" + r.styles.Muted.Render("    "+snippet)
}

// Title returns the document title of a result, or its resource ID when
// the document is missing or untitled.
func Title(result domain.SearchResult) string {
	if result.Document != nil && result.Document.Title != "" {
		return result.Document.Title
	}
	return result.ResourceID
}

// Truncate shortens s to width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// SetResults replaces the results and resets the selection.
func (r *ResultList) SetResults(heading string, results []domain.SearchResult) {
	if heading != "" {
		r.heading = heading
	}
	r.results = results
	r.selected = 0
}

// Heading returns the list heading.
func (r *ResultList) Heading() string {
	return r.heading
}

// Results returns the current results.
func (r *ResultList) Results() []domain.SearchResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected moves the selection; out of range indexes are ignored.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
	}
}

// SelectedResult returns the selected result, or nil when the list is empty.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves the selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves the selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}
