package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change notefuse settings.

Settings live in config.toml (or config.yaml when present) in the
configuration directory. Environment variables such as OPENAI_API_KEY and
NOTEFUSE_POSTGRES_DSN override the file and are never written to it.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:     "set [key] [value]",
	Short:   "Change a setting",
	Example: "  notefuse config set embedding.provider ollama\n  notefuse config set retrieval.chunk_size 800",
	Args:    cobra.ExactArgs(2),
	RunE:    runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate settings and ping the embedding provider",
	Args:  cobra.NoArgs,
	RunE:  runConfigCheck,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings %w", errNotConfigured)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	r := settings.Retrieval
	cmd.Println("[Retrieval]")
	cmd.Printf("  Chunk size: %d (overlap %d)\n", r.ChunkSize, r.Overlap)
	cmd.Printf("  Weights: vector %.2f, lexical %.2f\n", r.VectorWeight, r.LexicalWeight)
	cmd.Printf("  Candidate cap: %d\n", r.CandidateCap)
	cmd.Printf("  Default limit: %d\n", r.DefaultLimit)
	cmd.Printf("  Case sensitive: %t\n", r.CaseSensitive)
	if len(r.KnownResourceTypes) > 0 {
		cmd.Printf("  Known types: %s\n", strings.Join(r.KnownResourceTypes, ", "))
	}
	cmd.Printf("  Timeouts: embed %s, fetch %s\n", r.EmbedTimeout, r.FetchTimeout)
	cmd.Printf("  Workers: %d\n", r.Workers)
	cmd.Println()

	e := settings.Embedding
	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", e.Provider.Description())
	cmd.Printf("  Model: %s\n", e.Model)
	if e.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", e.BaseURL)
	}
	if e.Provider.RequiresAPIKey() {
		if e.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(e.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	if e.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", e.Dimensions)
	}
	if e.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %.1f/s (burst %d)\n", e.RequestsPerSecond, e.Burst)
	}
	cmd.Printf("  Max retries: %d\n", e.MaxRetries)
	cmd.Println()

	s := settings.Storage
	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", s.Backend.Description())
	if s.DataDir != "" {
		cmd.Printf("  Data dir: %s\n", s.DataDir)
	}
	if s.Backend == domain.StoragePostgres {
		if s.PostgresDSN != "" {
			cmd.Printf("  DSN: %s\n", maskAPIKey(s.PostgresDSN))
		} else {
			cmd.Printf("  DSN: (not set)\n")
		}
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  HTTP: %s\n", settings.Server.HTTPAddr)
	cmd.Printf("  MCP: %s\n", settings.Server.MCPAddr)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'notefuse config set <key> <value>' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings %w", errNotConfigured)
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if key == "embedding.api_key" || key == "storage.postgres_dsn" {
		shown = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, shown)
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings %w", errNotConfigured)
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings %w", errNotConfigured)
	}
	cmd.Println(settingsService.Path())
	return nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings %w", errNotConfigured)
	}

	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cmd.Println("Settings: OK")

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Printf("Embedding provider %s... ", settings.Embedding.Provider)
	if err := checkEmbedding(cmd.Context(), settings); err != nil {
		cmd.Println("FAILED")
		return err
	}
	cmd.Println("OK")
	return nil
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
