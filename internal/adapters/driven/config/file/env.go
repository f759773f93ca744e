package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/notefuse/internal/logger"
)

// HomeEnv overrides the default configuration directory.
const HomeEnv = "NOTEFUSE_HOME"

// EnvOverrides maps environment variables to the config keys they override.
//
//nolint:gosec // G101: These are variable names, not credentials.
var EnvOverrides = map[string]string{
	"OPENAI_API_KEY":              "embedding.api_key",
	"NOTEFUSE_EMBEDDING_PROVIDER": "embedding.provider",
	"NOTEFUSE_EMBEDDING_MODEL":    "embedding.model",
	"NOTEFUSE_EMBEDDING_BASE_URL": "embedding.base_url",
	"NOTEFUSE_STORAGE_BACKEND":    "storage.backend",
	"NOTEFUSE_DATA_DIR":           "storage.data_dir",
	"NOTEFUSE_POSTGRES_DSN":       "storage.postgres_dsn",
}

// DefaultDir returns $NOTEFUSE_HOME, or ~/.notefuse.
func DefaultDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".notefuse"), nil
}

// LoadEnv loads .env from the config directory and the working directory.
// Missing files are ignored and variables already set are never replaced.
func LoadEnv(configDir string) error {
	candidates := []string{".env"}
	if configDir != "" {
		candidates = append(candidates, filepath.Join(configDir, ".env"))
	}

	var files []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			files = append(files, f)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", f, err)
		}
	}
	if len(files) == 0 {
		return nil
	}

	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("loading env files: %w", err)
	}
	logger.Debug("Loaded environment from %v", files)
	return nil
}

// envValues returns the overrides present in the environment.
func envValues() map[string]any {
	values := make(map[string]any)
	for env, key := range EnvOverrides {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			values[key] = v
		}
	}
	return values
}
