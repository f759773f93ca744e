package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

const snippetWidth = 160

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed notes",
	Long: `Performs hybrid search across all indexed notes.
Combines keyword matching and semantic (vector) search into one ranking.
If one half fails the other still answers and the output says so.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := ensureEngine(cmd.Context()); err != nil {
		return err
	}
	if retrievalService == nil {
		return fmt.Errorf("retrieval %w", errNotConfigured)
	}

	resp, err := retrievalService.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd, newResultsJSON(resp.Query, resp.Results, resp.Degraded, resp.Warnings))
	}

	if resp.Degraded {
		cmd.Println("Warning: partial results.")
		for _, w := range resp.Warnings {
			cmd.Printf("  %s\n", w)
		}
		cmd.Println()
	}
	outputResultsTable(cmd, resp.Results)
	return nil
}

// resultsJSON is the --json shape of search and related output.
type resultsJSON struct {
	Query    string       `json:"query,omitempty"`
	Results  []resultJSON `json:"results"`
	Degraded bool         `json:"degraded,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

type resultJSON struct {
	ResourceID   string  `json:"resource_id"`
	ResourceType string  `json:"resource_type"`
	Title        string  `json:"title,omitempty"`
	Score        float64 `json:"score"`
	Snippet      string  `json:"snippet,omitempty"`
}

func newResultsJSON(query string, results []domain.SearchResult, degraded bool, warnings []string) resultsJSON {
	out := resultsJSON{
		Query:    query,
		Results:  make([]resultJSON, len(results)),
		Degraded: degraded,
		Warnings: warnings,
	}
	for i, r := range results {
		out.Results[i] = resultJSON{
			ResourceID:   r.ResourceID,
			ResourceType: r.ResourceType,
			Title:        resultTitle(r),
			Score:        r.Score,
			Snippet:      r.Snippet,
		}
	}
	return out
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultsTable(cmd *cobra.Command, results []domain.SearchResult) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, resultTitle(r), r.Score)
		cmd.Printf("      %s\n", r.Key())
		if snippet := shorten(r.Snippet, snippetWidth); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}
}

func resultTitle(r domain.SearchResult) string {
	if r.Document != nil && r.Document.Title != "" {
		return r.Document.Title
	}
	return r.ResourceID
}

// shorten collapses whitespace and truncates to width runes.
func shorten(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
