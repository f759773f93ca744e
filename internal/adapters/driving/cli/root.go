// Package cli provides the notefuse command-line interface built on cobra.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
	"github.com/custodia-labs/notefuse/internal/core/ports/driving"
	"github.com/custodia-labs/notefuse/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
)

// Services used by the commands. They are wired lazily by ensureEngine so
// that config and version work without a store; tests assign them directly.
var (
	retrievalService driving.RetrievalService
	documentService  driving.DocumentService
	settingsService  driving.SettingsService
	normaliser       driven.NormaliserRegistry
	tokenCounter     driven.TokenCounter
)

// closers release resources opened during wiring, in reverse order.
var closers []func() error

var rootCmd = &cobra.Command{
	Use:   "notefuse",
	Short: "Hybrid semantic and keyword search over your notes",
	Long: `notefuse indexes notes and documents into embedding records and finds
them again by meaning and by exact text. Results from vector similarity and
keyword matching are fused into one ranking.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default $NOTEFUSE_HOME or ~/.notefuse)")
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	if verbose {
		logger.SetVerbose(true)
	}
	return loadSettings()
}

func teardown(_ *cobra.Command, _ []string) error {
	return closeAll()
}

func closeAll() error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		errs = append(errs, closers[i]())
	}
	closers = nil
	return errors.Join(errs...)
}
