package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// clearServices empties the package-level services for the duration of a test.
func clearServices(t *testing.T) {
	t.Helper()
	oldR, oldD, oldS := retrievalService, documentService, settingsService
	oldN, oldT, oldHome := normaliser, tokenCounter, homeDir
	retrievalService, documentService, settingsService = nil, nil, nil
	normaliser, tokenCounter = nil, nil
	t.Cleanup(func() {
		require.NoError(t, closeAll())
		retrievalService, documentService, settingsService = oldR, oldD, oldS
		normaliser, tokenCounter, homeDir = oldN, oldT, oldHome
	})
}

func TestLoadSettings_UsesConfigDir(t *testing.T) {
	clearServices(t)
	dir := t.TempDir()

	out, err := execute(t, nil, "--config-dir", dir, "config", "path")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml")+"\n", out)
	assert.Equal(t, dir, homeDir)
}

func TestEnsureEngine_SQLiteDefault(t *testing.T) {
	clearServices(t)
	dir := t.TempDir()
	t.Setenv("NOTEFUSE_STORAGE_BACKEND", "")

	_, err := execute(t, nil, "--config-dir", dir, "index", "note", "n1", "--text", "persisted note")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "data", "notefuse.db"))
	assert.NoError(t, err, "sqlite database is created under the config dir")
}

func TestEnsureEngine_MemoryBackend(t *testing.T) {
	clearServices(t)
	dir := t.TempDir()
	t.Setenv("NOTEFUSE_STORAGE_BACKEND", "memory")

	require.NoError(t, loadSettingsFrom(dir))
	require.NoError(t, ensureEngine(context.Background()))

	assert.NotNil(t, retrievalService)
	assert.NotNil(t, documentService)
	assert.NotNil(t, normaliser)
	assert.NotNil(t, tokenCounter)

	n, err := documentService.Ingest(context.Background(), domain.Document{
		ResourceID: "n1", ResourceType: "note", Body: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEnsureEngine_InvalidSettings(t *testing.T) {
	clearServices(t)
	dir := t.TempDir()
	t.Setenv("NOTEFUSE_STORAGE_BACKEND", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[retrieval]\nchunk_size = 10\noverlap = 20\n"), 0o600))

	require.NoError(t, loadSettingsFrom(dir))
	err := ensureEngine(context.Background())

	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	assert.Nil(t, retrievalService)
}

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("postgres requires a DSN", func(t *testing.T) {
		_, err := openStorage(ctx, domain.StorageSettings{Backend: domain.StoragePostgres})
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := openStorage(ctx, domain.StorageSettings{Backend: "cassandra"})
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("badger keeps records next to the sqlite database", func(t *testing.T) {
		dir := t.TempDir()
		clearServices(t)

		st, err := openStorage(ctx, domain.StorageSettings{Backend: domain.StorageBadger, DataDir: dir})
		require.NoError(t, err)
		assert.NotNil(t, st.docs)
		assert.NotNil(t, st.records)
		assert.Nil(t, st.index)

		_, err = os.Stat(filepath.Join(dir, "records"))
		assert.NoError(t, err)
	})
}
