package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notefuse/internal/connectors/filesystem"
	"github.com/custodia-labs/notefuse/internal/core/domain"
)

func testCommand() (*cobra.Command, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	return cmd, buf
}

func TestSyncDirectory(t *testing.T) {
	defer setupTestServices(t)()
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "work"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "work", "standup.md"), []byte("# Standup\n\nDeploy on Tuesday"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todo.txt"), []byte("buy milk"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.png"), []byte{0x89, 0x50}, 0o644))

	connector := filesystem.New(dir, noteExtensions...)
	cmd, out := testCommand()

	n, err := syncDirectory(ctx, cmd, connector, "note")

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, out.String(), "indexed note/work/standup.md")

	doc, err := documentService.Get(ctx, "work/standup.md", "note")
	require.NoError(t, err)
	assert.Equal(t, "Standup", doc.Title)
	assert.Equal(t, filepath.Join(dir, "work", "standup.md"), doc.Metadata["path"])
}

func TestApplyChange(t *testing.T) {
	defer setupTestServices(t)()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "idea.txt")
	connector := filesystem.New(dir, noteExtensions...)
	cmd, out := testCommand()

	applyChange(ctx, cmd, connector, "note", domain.RawDocumentChange{
		Type: domain.ChangeCreated,
		Document: domain.RawDocument{
			URI:      path,
			MIMEType: "text/plain",
			Content:  []byte("a new idea"),
		},
	})
	_, err := documentService.Get(ctx, "idea.txt", "note")
	require.NoError(t, err)

	applyChange(ctx, cmd, connector, "note", domain.RawDocumentChange{
		Type:     domain.ChangeDeleted,
		Document: domain.RawDocument{URI: path},
	})
	_, err = documentService.Get(ctx, "idea.txt", "note")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, out.String(), "removed note/idea.txt (1 records)")
}

func TestWatchCmd_InvalidDirectory(t *testing.T) {
	defer setupTestServices(t)()

	_, err := execute(t, nil, "watch", filepath.Join(t.TempDir(), "missing"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServeCmd_InvalidMCPMode(t *testing.T) {
	defer setupTestServices(t)()

	_, err := execute(t, nil, "serve", "--mcp", "carrier-pigeon")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown --mcp mode")
}
