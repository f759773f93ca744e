package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearOverrides unsets every override variable for the test.
func clearOverrides(t *testing.T) {
	t.Helper()
	for env := range EnvOverrides {
		t.Setenv(env, "")
	}
}

func TestNewConfigStore_Success(t *testing.T) {
	clearOverrides(t)
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, TOMLFile), store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_HomeEnv(t *testing.T) {
	clearOverrides(t)
	tmpDir := t.TempDir()
	t.Setenv(HomeEnv, tmpDir)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, TOMLFile), store.Path())
}

func TestConfigStore_PersistsTOML(t *testing.T) {
	clearOverrides(t)
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("retrieval.chunk_size", 400))
	require.NoError(t, store.Set("retrieval.vector_weight", 0.75))
	require.NoError(t, store.Set("retrieval.case_sensitive", true))
	require.NoError(t, store.Set("retrieval.embed_timeout", 10*time.Second))
	require.NoError(t, store.Set("retrieval.known_types", []string{"note", "task"}))
	require.NoError(t, store.Set("embedding.provider", "ollama"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[retrieval]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 400, reloaded.GetInt("retrieval.chunk_size"))
	assert.InDelta(t, 0.75, reloaded.GetFloat("retrieval.vector_weight"), 1e-9)
	assert.True(t, reloaded.GetBool("retrieval.case_sensitive"))
	assert.Equal(t, 10*time.Second, reloaded.GetDuration("retrieval.embed_timeout"))
	assert.Equal(t, []string{"note", "task"}, reloaded.GetStringSlice("retrieval.known_types"))
	assert.Equal(t, "ollama", reloaded.GetString("embedding.provider"))
	assert.Equal(t, []string{
		"embedding.provider",
		"retrieval.case_sensitive",
		"retrieval.chunk_size",
		"retrieval.embed_timeout",
		"retrieval.known_types",
		"retrieval.vector_weight",
	}, reloaded.Keys())
}

func TestConfigStore_YAML(t *testing.T) {
	clearOverrides(t)
	tmpDir := t.TempDir()
	yamlConfig := "retrieval:\n  chunk_size: 300\n  lexical_weight: 2\nembedding:\n  provider: hash\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, YAMLFile), []byte(yamlConfig), 0o600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, YAMLFile), store.Path())
	assert.Equal(t, 300, store.GetInt("retrieval.chunk_size"))
	assert.InDelta(t, 2.0, store.GetFloat("retrieval.lexical_weight"), 1e-9)
	assert.Equal(t, "hash", store.GetString("embedding.provider"))

	require.NoError(t, store.Set("retrieval.overlap", 20))
	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 20, reloaded.GetInt("retrieval.overlap"))
	assert.Equal(t, 300, reloaded.GetInt("retrieval.chunk_size"))
}

func TestConfigStore_WrongTypes(t *testing.T) {
	clearOverrides(t)
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("int_key", 42))
	require.NoError(t, store.Set("string_key", "hello"))

	assert.Equal(t, "", store.GetString("int_key"))
	assert.Equal(t, 0, store.GetInt("string_key"))
	assert.False(t, store.GetBool("string_key"))
	assert.Zero(t, store.GetDuration("string_key"))
	assert.Nil(t, store.GetStringSlice("int_key"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_EnvOverrides(t *testing.T) {
	clearOverrides(t)
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("storage.postgres_dsn", "postgres://file"))

	t.Setenv("NOTEFUSE_POSTGRES_DSN", "postgres://env")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	require.NoError(t, store.Load())

	assert.Equal(t, "postgres://env", store.GetString("storage.postgres_dsn"))
	assert.Equal(t, "sk-env", store.GetString("embedding.api_key"))
	assert.Contains(t, store.Keys(), "embedding.api_key")

	// Overrides are never written to the file.
	require.NoError(t, store.Save())
	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sk-env")
	assert.Contains(t, string(raw), "postgres://file")
}

func TestConfigStore_InvalidFile(t *testing.T) {
	clearOverrides(t)
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, TOMLFile), []byte("not = [valid"), 0o600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("NOTEFUSE_TEST_FROM_FILE", "")
	t.Setenv("NOTEFUSE_TEST_PRESET", "kept")
	require.NoError(t, os.Unsetenv("NOTEFUSE_TEST_FROM_FILE"))

	content := "NOTEFUSE_TEST_FROM_FILE=loaded\nNOTEFUSE_TEST_PRESET=replaced\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(content), 0o600))

	require.NoError(t, LoadEnv(tmpDir))
	assert.Equal(t, "loaded", os.Getenv("NOTEFUSE_TEST_FROM_FILE"))
	assert.Equal(t, "kept", os.Getenv("NOTEFUSE_TEST_PRESET"))

	assert.NoError(t, LoadEnv(t.TempDir()))
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{"a.b": 1, "a.c": "x", "d": true})
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": 1, "c": "x"},
		"d": true,
	}, nested)
	assert.Equal(t, map[string]any{"a.b": 1, "a.c": "x", "d": true}, flattenMap(nested, ""))
}
