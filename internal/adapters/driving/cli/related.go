package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	relatedLimit int
	relatedJSON  bool
)

var relatedCmd = &cobra.Command{
	Use:   "related [type] [id]",
	Short: "Find notes similar to a note",
	Long: `Lists the notes closest in meaning to the given note.
The note itself is never part of the result.`,
	Args: cobra.ExactArgs(2),
	RunE: runRelated,
}

func init() {
	relatedCmd.Flags().IntVarP(&relatedLimit, "limit", "n", 10, "maximum number of results")
	relatedCmd.Flags().BoolVar(&relatedJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(relatedCmd)
}

func runRelated(cmd *cobra.Command, args []string) error {
	if err := ensureEngine(cmd.Context()); err != nil {
		return err
	}
	if retrievalService == nil {
		return fmt.Errorf("retrieval %w", errNotConfigured)
	}

	results, err := retrievalService.RelatedTo(cmd.Context(), args[1], args[0], relatedLimit)
	if err != nil {
		return fmt.Errorf("related lookup failed: %w", err)
	}

	if relatedJSON {
		return outputJSON(cmd, newResultsJSON("", results, false, nil))
	}
	outputResultsTable(cmd, results)
	return nil
}
