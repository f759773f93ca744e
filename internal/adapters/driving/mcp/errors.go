// Package mcp provides an MCP (Model Context Protocol) server adapter for notefuse.
// It lets chat assistants search notes, find related notes and index new ones.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
