package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/normalisers"
)

var (
	indexFile   string
	indexText   string
	indexTitle  string
	indexAppend bool
	indexTokens bool
)

var indexCmd = &cobra.Command{
	Use:   "index [type] [id]",
	Short: "Index a note",
	Long: `Stores a note and makes it searchable.

The note text comes from --file (plain text, Markdown or PDF), from --text,
or from standard input. By default any previous records of the note are
replaced; --append adds records alongside the existing ones.`,
	Example: `  notefuse index note standup --file standup.md
  notefuse index meeting_note 2024-06-01 --title "Planning" --text "Agreed on the Q3 scope"
  cat notes.txt | notefuse index note scratch`,
	Args: cobra.ExactArgs(2),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexFile, "file", "f", "", "read the note from a file")
	indexCmd.Flags().StringVarP(&indexText, "text", "t", "", "note text")
	indexCmd.Flags().StringVar(&indexTitle, "title", "", "note title (defaults to the file's heading or name)")
	indexCmd.Flags().BoolVar(&indexAppend, "append", false, "append records instead of replacing them")
	indexCmd.Flags().BoolVar(&indexTokens, "tokens", false, "report the token count of the indexed text")
	indexCmd.MarkFlagsMutuallyExclusive("file", "text")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	resourceType, resourceID := args[0], args[1]
	ctx := cmd.Context()

	if err := ensureEngine(ctx); err != nil {
		return err
	}
	if retrievalService == nil || documentService == nil {
		return fmt.Errorf("retrieval %w", errNotConfigured)
	}

	doc, err := readNote(cmd)
	if err != nil {
		return err
	}
	doc.ResourceID = resourceID
	doc.ResourceType = resourceType

	var n int
	if indexAppend {
		if err := documentService.Save(ctx, *doc); err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}
		n, err = retrievalService.Index(ctx, resourceID, resourceType, doc.IndexText())
	} else {
		n, err = documentService.Ingest(ctx, *doc)
	}
	if err != nil {
		if persisted := domain.PersistedCount(err); persisted > 0 {
			cmd.Printf("Indexing stopped after %d chunks\n", persisted)
		}
		return fmt.Errorf("failed to index note: %w", err)
	}

	cmd.Printf("Indexed %s: %d chunks\n", doc.Key(), n)

	if indexTokens && tokenCounter != nil {
		tokens, err := tokenCounter.CountTokens(doc.IndexText())
		if err != nil {
			cmd.Printf("Token count unavailable: %v\n", err)
		} else {
			cmd.Printf("Tokens: %d (%s)\n", tokens, tokenCounter.Encoding())
		}
	}
	return nil
}

// readNote builds a document from --file, --text or stdin.
func readNote(cmd *cobra.Command) (*domain.Document, error) {
	switch {
	case indexFile != "":
		if normaliser == nil {
			return nil, fmt.Errorf("normaliser %w", errNotConfigured)
		}
		raw, err := normalisers.ReadFile(indexFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", indexFile, err)
		}
		if indexTitle != "" {
			raw.Metadata = map[string]any{"title": indexTitle}
		}
		doc, err := normaliser.Normalise(cmd.Context(), raw)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from %s: %w", indexFile, err)
		}
		if indexTitle != "" {
			doc.Title = indexTitle
		}
		return doc, nil

	case indexText != "":
		return &domain.Document{Title: indexTitle, Body: indexText}, nil

	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		if len(data) == 0 {
			return nil, errors.New("no note text: use --file, --text or pipe text on stdin")
		}
		return &domain.Document{Title: indexTitle, Body: string(data)}, nil
	}
}
