// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// SearchCompleted carries a search response back to the model.
type SearchCompleted struct {
	Query    string
	Response *domain.SearchResponse
	Err      error
}

// RelatedCompleted carries the notes related to Source.
type RelatedCompleted struct {
	Source  domain.ResourceKey
	Results []domain.SearchResult
	Err     error
}

// OpenResult asks the app to show a result in the reader.
type OpenResult struct {
	Result domain.SearchResult
}

// DocumentLoaded carries the full document for the reader.
type DocumentLoaded struct {
	Key      domain.ResourceKey
	Document *domain.Document
	Err      error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is active.
type ViewType int

const (
	// ViewSearch is the search input and results view.
	ViewSearch ViewType = iota
	// ViewReader shows a single note.
	ViewReader
	// ViewHelp lists the keybindings.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewReader:
		return "reader"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// RelatedRequested asks the search view to list notes related to Key.
type RelatedRequested struct {
	Key domain.ResourceKey
}
