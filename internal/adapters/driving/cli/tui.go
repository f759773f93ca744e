package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notefuse/internal/adapters/driving/tui"
	"github.com/custodia-labs/notefuse/internal/logger"
)

var tuiLimit int

var tuiCmd = &cobra.Command{
	Use:   "tui [query]",
	Short: "Search notes interactively",
	Long: `Opens a terminal interface for searching indexed notes.
Type a query and press enter. Open a result to read the note, or press r
to list the notes related to it. An optional query runs on start.`,
	Args: cobra.ArbitraryArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVarP(&tuiLimit, "limit", "n", 20, "maximum number of results per search")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	if err := ensureEngine(cmd.Context()); err != nil {
		return err
	}
	if retrievalService == nil {
		return fmt.Errorf("retrieval %w", errNotConfigured)
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			err = fmt.Errorf("tui panic: %v", r)
		}
	}()

	// Log lines would tear the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	app, err := tui.NewApp(&tui.Ports{Retrieval: retrievalService, Document: documentService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context()).
		WithLimit(tuiLimit).
		WithQuery(strings.Join(args, " "))

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
