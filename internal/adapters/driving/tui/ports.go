// Package tui provides an interactive terminal search for notefuse.
// It is a driving adapter: every action goes through the driving ports.
package tui

import (
	"github.com/custodia-labs/notefuse/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI talks to.
type Ports struct {
	// Retrieval answers searches and related-note lookups.
	Retrieval driving.RetrievalService

	// Document loads full note text for the reader. Optional: without it
	// the reader shows the document attached to the search result.
	Document driving.DocumentService
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
