package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notefuse/internal/connectors/filesystem"
	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// noteExtensions are the file types the watcher picks up.
var noteExtensions = []string{".md", ".markdown", ".txt", ".text", ".pdf"}

var (
	watchType      string
	watchNoInitial bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Keep a notes directory indexed",
	Long: `Indexes every note file below a directory and then watches it.
Created and modified files are reindexed; deleted files are removed.
Each file's path relative to the directory is its resource ID.
Hidden files and directories are skipped. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchType, "type", "note", "resource type of indexed files")
	watchCmd.Flags().BoolVar(&watchNoInitial, "no-initial", false, "skip the initial full index")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := requireDocuments(cmd); err != nil {
		return err
	}

	connector := filesystem.New(args[0], noteExtensions...)
	if err := connector.Validate(); err != nil {
		return err
	}
	defer connector.Close()

	changes, err := connector.Watch(ctx)
	if err != nil {
		return err
	}

	if !watchNoInitial {
		n, err := syncDirectory(ctx, cmd, connector, watchType)
		if err != nil {
			return err
		}
		cmd.Printf("Indexed %d files from %s\n", n, connector.Root())
	}

	cmd.Printf("Watching %s for changes...\n", connector.Root())
	for change := range changes {
		applyChange(ctx, cmd, connector, watchType, change)
	}
	return nil
}

// syncDirectory indexes every file the connector yields and returns how
// many succeeded. Per-file failures are reported and skipped.
func syncDirectory(ctx context.Context, cmd *cobra.Command, c *filesystem.Connector, resourceType string) (int, error) {
	docs, errs := c.FullSync(ctx)

	indexed := 0
	for raw := range docs {
		if err := ingestRaw(ctx, cmd, c, resourceType, &raw); err != nil {
			cmd.PrintErrf("  %s: %v\n", raw.URI, err)
			continue
		}
		indexed++
	}
	if err := <-errs; err != nil {
		return indexed, err
	}
	return indexed, nil
}

// applyChange reindexes or removes the note behind a file change.
func applyChange(ctx context.Context, cmd *cobra.Command, c *filesystem.Connector, resourceType string, change domain.RawDocumentChange) {
	id := c.ResourceID(change.Document.URI)

	switch change.Type {
	case domain.ChangeDeleted:
		n, err := documentService.Delete(ctx, id, resourceType)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			cmd.PrintErrf("  remove %s: %v\n", id, err)
			return
		}
		cmd.Printf("  removed %s/%s (%d records)\n", resourceType, id, n)
	case domain.ChangeCreated, domain.ChangeUpdated:
		if err := ingestRaw(ctx, cmd, c, resourceType, &change.Document); err != nil {
			cmd.PrintErrf("  %s %s: %v\n", change.Type, id, err)
		}
	}
}

func ingestRaw(ctx context.Context, cmd *cobra.Command, c *filesystem.Connector, resourceType string, raw *domain.RawDocument) error {
	if normaliser == nil {
		return fmt.Errorf("normaliser %w", errNotConfigured)
	}

	doc, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		return err
	}
	doc.ResourceID = c.ResourceID(raw.URI)
	doc.ResourceType = resourceType
	if doc.Metadata == nil {
		doc.Metadata = map[string]any{}
	}
	doc.Metadata["path"] = raw.URI

	n, err := documentService.Ingest(ctx, *doc)
	if err != nil {
		return err
	}
	cmd.Printf("  indexed %s (%d chunks)\n", doc.Key(), n)
	return nil
}
