package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Inspect stored notes",
	Long:  `List stored notes, view one, or print its text.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list [type]",
	Short: "List notes, optionally of one type",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [type] [id]",
	Short: "Show note info",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [type] [id]",
	Short: "Print note text",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentContent,
}

var removeCmd = &cobra.Command{
	Use:   "remove [type] [id]",
	Short: "Remove a note and its embedding records",
	Args:  cobra.ExactArgs(2),
	RunE:  runRemove,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	rootCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(removeCmd)
}

func requireDocuments(cmd *cobra.Command) error {
	if err := ensureEngine(cmd.Context()); err != nil {
		return err
	}
	if documentService == nil {
		return fmt.Errorf("document %w", errNotConfigured)
	}
	return nil
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(cmd); err != nil {
		return err
	}

	resourceType := ""
	if len(args) == 1 {
		resourceType = args[0]
	}

	docs, err := documentService.List(cmd.Context(), resourceType)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No notes found.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].Key())
		if docs[i].Title != "" {
			cmd.Printf("    Title: %s\n", docs[i].Title)
		}
	}
	cmd.Printf("\nTotal: %d notes\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(cmd); err != nil {
		return err
	}

	doc, err := documentService.Get(cmd.Context(), args[1], args[0])
	if err != nil {
		return fmt.Errorf("failed to get note: %w", err)
	}

	cmd.Printf("Note: %s\n\n", doc.Key())
	cmd.Printf("  Title:    %s\n", doc.Title)
	cmd.Printf("  Length:   %d characters\n", len([]rune(doc.Body)))
	cmd.Printf("  Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:  %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))

	if len(doc.Metadata) > 0 {
		cmd.Println("\n  Metadata:")
		for _, k := range slices.Sorted(maps.Keys(doc.Metadata)) {
			cmd.Printf("    %s: %v\n", k, doc.Metadata[k])
		}
	}
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(cmd); err != nil {
		return err
	}

	doc, err := documentService.Get(cmd.Context(), args[1], args[0])
	if err != nil {
		return fmt.Errorf("failed to get note: %w", err)
	}
	cmd.Println(doc.IndexText())
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(cmd); err != nil {
		return err
	}

	n, err := documentService.Delete(cmd.Context(), args[1], args[0])
	if err != nil {
		return fmt.Errorf("failed to remove note: %w", err)
	}
	cmd.Printf("Removed %s/%s and %d records.\n", args[0], args[1], n)
	return nil
}
