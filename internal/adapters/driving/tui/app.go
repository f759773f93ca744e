package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/views/reader"
	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui/views/search"
)

// App is the root Bubbletea model. It routes messages between the search
// view and the reader.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	searchView *search.View
	readerView *reader.View

	currentView  messages.ViewType
	initialQuery string

	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates the TUI application.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		searchView:  search.NewView(s, km, ports.Retrieval),
		readerView:  reader.NewView(s, km, ports.Document),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context every service call runs under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.readerView.WithContext(ctx)
	return a
}

// WithLimit sets the number of results per search.
func (a *App) WithLimit(limit int) *App {
	a.searchView.WithLimit(limit)
	return a
}

// WithQuery runs query as soon as the program starts.
func (a *App) WithQuery(query string) *App {
	a.initialQuery = strings.TrimSpace(query)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("notefuse"),
		a.searchView.Init(),
	}
	if a.initialQuery != "" {
		cmds = append(cmds, a.searchView.Search(a.initialQuery))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height, a.ready = msg.Width, msg.Height, true
		a.searchView.SetDimensions(msg.Width, msg.Height)
		a.readerView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.currentView {
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
		case messages.ViewReader:
			a.readerView, cmd = a.readerView.Update(msg)
		case messages.ViewHelp:
			if keymap.Matches(msg.String(), a.keymap.Quit) {
				return a, tea.Quit
			}
			a.currentView = messages.ViewSearch
		}
		return a, cmd

	case messages.OpenResult:
		a.currentView = messages.ViewReader
		return a, a.readerView.Open(msg.Result)

	case messages.DocumentLoaded:
		a.readerView, cmd = a.readerView.Update(msg)
		return a, cmd

	case messages.RelatedRequested:
		a.currentView = messages.ViewSearch
		return a, a.searchView.Related(msg.Key)

	case messages.SearchCompleted, messages.RelatedCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd
	}

	switch a.currentView {
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewReader:
		a.readerView, cmd = a.readerView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewReader:
		return a.readerView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewSearch:
	}
	return a.searchView.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-8s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("Press any key to return."))
	return b.String()
}

// Run starts the program on the alternate screen and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SearchView returns the search view.
func (a *App) SearchView() *search.View {
	return a.searchView
}

// ReaderView returns the reader view.
func (a *App) ReaderView() *reader.View {
	return a.readerView
}
