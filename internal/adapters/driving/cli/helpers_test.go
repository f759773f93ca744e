package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notefuse/internal/adapters/driven/embedding/hashed"
	"github.com/custodia-labs/notefuse/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/services"
	"github.com/custodia-labs/notefuse/internal/normalisers"
)

// setupTestServices wires in-memory stores and the hashing embedder into
// the package-level services. The returned func restores the previous state.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	oldRetrieval, oldDocs, oldSettings := retrievalService, documentService, settingsService
	oldNormaliser, oldCounter := normaliser, tokenCounter

	docs := memory.NewDocumentStore()
	retrieval, err := services.NewRetrievalService(
		hashed.NewEmbeddingService(64),
		memory.NewRecordStore(),
		nil,
		nil,
		docs,
		domain.DefaultRetrievalConfig(),
	)
	require.NoError(t, err)

	retrievalService = retrieval
	documentService = services.NewDocumentService(docs, retrieval)
	settingsService = services.NewSettingsService(memory.NewConfigStore())
	normaliser = normalisers.Default()
	tokenCounter = nil

	return func() {
		retrievalService, documentService, settingsService = oldRetrieval, oldDocs, oldSettings
		normaliser, tokenCounter = oldNormaliser, oldCounter
	}
}

// execute runs the root command with args and returns everything it printed.
// Flags are reset afterwards because cobra keeps their values between runs.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
