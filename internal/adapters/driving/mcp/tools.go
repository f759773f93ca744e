package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// defaultNoteType is used by index_note when the caller gives no type.
const defaultNoteType = "note"

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find notes"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results  []ResultOutput `json:"results"`
	Count    int            `json:"count"`
	Degraded bool           `json:"degraded,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

// ResultOutput represents a single search or related result.
type ResultOutput struct {
	ResourceID   string  `json:"resource_id"`
	ResourceType string  `json:"resource_type"`
	Title        string  `json:"title,omitempty"`
	Score        float64 `json:"score"`
	Snippet      string  `json:"snippet,omitempty"`
}

// RelatedInput is the input schema for the related_to tool.
type RelatedInput struct {
	ResourceID   string `json:"resource_id" jsonschema:"identifier of the note to find neighbours for"`
	ResourceType string `json:"resource_type" jsonschema:"type of the note, e.g. note or meeting_note"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// RelatedOutput is the output schema for the related_to tool.
type RelatedOutput struct {
	Results []ResultOutput `json:"results"`
	Count   int            `json:"count"`
}

// IndexNoteInput is the input schema for the index_note tool.
type IndexNoteInput struct {
	ResourceID   string `json:"resource_id" jsonschema:"identifier of the note"`
	ResourceType string `json:"resource_type,omitempty" jsonschema:"type of the note (default note)"`
	Title        string `json:"title,omitempty" jsonschema:"title of the note"`
	Text         string `json:"text" jsonschema:"full text of the note"`
}

// IndexNoteOutput is the output schema for the index_note tool.
type IndexNoteOutput struct {
	ResourceID   string `json:"resource_id"`
	ResourceType string `json:"resource_type"`
	Chunks       int    `json:"chunks"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search indexed notes by meaning and by exact text",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "related_to",
		Description: "Find notes similar to an existing note",
	}, s.handleRelated)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_note",
		Description: "Store a note and make it searchable, replacing any previous version",
	}, s.handleIndexNote)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	resp, err := s.ports.Retrieval.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	results := toOutputs(resp.Results)
	return nil, SearchOutput{
		Results:  results,
		Count:    len(results),
		Degraded: resp.Degraded,
		Warnings: resp.Warnings,
	}, nil
}

// handleRelated handles the related_to tool invocation.
func (s *Server) handleRelated(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RelatedInput,
) (*mcp.CallToolResult, RelatedOutput, error) {
	hits, err := s.ports.Retrieval.RelatedTo(ctx, input.ResourceID, input.ResourceType, input.Limit)
	if err != nil {
		return nil, RelatedOutput{}, err
	}

	results := toOutputs(hits)
	return nil, RelatedOutput{Results: results, Count: len(results)}, nil
}

// handleIndexNote handles the index_note tool invocation.
// With a document service the note is saved and reindexed; otherwise only
// the text is indexed.
func (s *Server) handleIndexNote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexNoteInput,
) (*mcp.CallToolResult, IndexNoteOutput, error) {
	resourceType := input.ResourceType
	if resourceType == "" {
		resourceType = defaultNoteType
	}

	var (
		n   int
		err error
	)
	if s.ports.Document != nil {
		n, err = s.ports.Document.Ingest(ctx, domain.Document{
			ResourceID:   input.ResourceID,
			ResourceType: resourceType,
			Title:        input.Title,
			Body:         input.Text,
		})
	} else {
		doc := domain.Document{Title: input.Title, Body: input.Text}
		n, err = s.ports.Retrieval.Reindex(ctx, input.ResourceID, resourceType, doc.IndexText())
	}
	if err != nil {
		return nil, IndexNoteOutput{}, fmt.Errorf("indexing note %s/%s: %w", resourceType, input.ResourceID, err)
	}

	return nil, IndexNoteOutput{
		ResourceID:   input.ResourceID,
		ResourceType: resourceType,
		Chunks:       n,
	}, nil
}

func toOutputs(results []domain.SearchResult) []ResultOutput {
	out := make([]ResultOutput, len(results))
	for i := range results {
		out[i] = ResultOutput{
			ResourceID:   results[i].ResourceID,
			ResourceType: results[i].ResourceType,
			Score:        results[i].Score,
			Snippet:      results[i].Snippet,
		}
		if results[i].Document != nil {
			out[i].Title = results[i].Document.Title
		}
	}
	return out
}
