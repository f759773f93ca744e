package mcp

import (
	"github.com/custodia-labs/notefuse/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Retrieval runs searches and indexes text.
	Retrieval driving.RetrievalService

	// Document stores notes. Optional: without it index_note only indexes
	// text and the document resources are empty.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
