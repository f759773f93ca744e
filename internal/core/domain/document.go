package domain

import "time"

// ResourceKey identifies a document across resource kinds.
// Identifiers are opaque; two resources with the same ID but different
// types are different resources.
type ResourceKey struct {
	Type string
	ID   string
}

// String renders the key as type/id.
func (k ResourceKey) String() string {
	return k.Type + "/" + k.ID
}

// Document is a resource owned by the document store.
// The search engine reads documents but never owns their lifecycle.
type Document struct {
	// ResourceID is the caller's identifier for the document.
	ResourceID string

	// ResourceType distinguishes document kinds (e.g. "meeting_note").
	ResourceType string

	// Title is the human-readable title.
	Title string

	// Body is the full text of the document.
	Body string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was first stored.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Key returns the document's resource key.
func (d Document) Key() ResourceKey {
	return ResourceKey{Type: d.ResourceType, ID: d.ResourceID}
}

// IndexText returns the text that gets chunked and embedded for the document.
func (d Document) IndexText() string {
	switch {
	case d.Title == "":
		return d.Body
	case d.Body == "":
		return d.Title
	default:
		return d.Title + "\n\n" + d.Body
	}
}
