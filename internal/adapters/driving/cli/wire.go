package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/notefuse/internal/adapters/driven/ai"
	"github.com/custodia-labs/notefuse/internal/adapters/driven/config/file"
	"github.com/custodia-labs/notefuse/internal/adapters/driven/storage/badger"
	"github.com/custodia-labs/notefuse/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notefuse/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/notefuse/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/notefuse/internal/adapters/driven/tokenizer"
	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
	"github.com/custodia-labs/notefuse/internal/core/services"
	"github.com/custodia-labs/notefuse/internal/logger"
	"github.com/custodia-labs/notefuse/internal/normalisers"
)

var errNotConfigured = errors.New("service not configured")

// homeDir is the resolved configuration directory.
var homeDir string

// loadSettings opens the config store unless a settings service was injected.
func loadSettings() error {
	if settingsService != nil {
		return nil
	}
	return loadSettingsFrom(configDir)
}

// loadSettingsFrom opens the config store in dir, or the default directory
// when dir is empty, after loading .env files.
func loadSettingsFrom(dir string) error {
	if dir == "" {
		d, err := file.DefaultDir()
		if err != nil {
			return fmt.Errorf("resolving config directory: %w", err)
		}
		dir = d
	}
	homeDir = dir
	if err := file.LoadEnv(dir); err != nil {
		return err
	}

	store, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	logger.Debug("Config: %s", store.Path())
	settingsService = services.NewSettingsService(store)
	return nil
}

// ensureEngine wires storage, the embedding provider and the services from
// the current settings. It is a no-op when the services already exist.
func ensureEngine(ctx context.Context) error {
	if retrievalService != nil {
		if normaliser == nil {
			normaliser = normalisers.Default()
		}
		return nil
	}
	if settingsService == nil {
		return fmt.Errorf("settings %w", errNotConfigured)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if err := services.ValidateSettings(*settings); err != nil {
		return err
	}

	logger.Section("Wiring")
	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return fmt.Errorf("creating embedding service: %w", err)
	}
	closers = append(closers, embedder.Close)
	logger.Debug("Embedding: %s (%s, %d dims)", settings.Embedding.Provider, embedder.ModelName(), embedder.Dimensions())

	st, err := openStorage(ctx, settings.Storage)
	if err != nil {
		return err
	}
	logger.Debug("Storage: %s", settings.Storage.Backend)

	retrieval, err := services.NewRetrievalService(
		embedder, st.records, st.index, nil, st.docs, settings.Retrieval,
	)
	if err != nil {
		return err
	}

	retrievalService = retrieval
	documentService = services.NewDocumentService(st.docs, retrieval)
	normaliser = normalisers.Default()
	tokenCounter = tokenizer.ForModel(settings.Embedding.Model)
	return nil
}

// storage bundles the stores chosen by the storage backend setting.
type storage struct {
	docs    driven.DocumentStore
	records driven.EmbeddingRecordStore
	index   driven.VectorIndex
}

func openStorage(ctx context.Context, cfg domain.StorageSettings) (*storage, error) {
	dataDir := cfg.DataDir
	if dataDir == "" && homeDir != "" {
		dataDir = filepath.Join(homeDir, "data")
	}

	switch cfg.Backend {
	case domain.StorageMemory:
		return &storage{docs: memory.NewDocumentStore(), records: memory.NewRecordStore()}, nil

	case domain.StorageSQLite, "":
		db, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		closers = append(closers, db.Close)
		return &storage{docs: db.DocumentStore(), records: db.RecordStore()}, nil

	case domain.StorageBadger:
		db, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		closers = append(closers, db.Close)

		records, err := badger.Open(filepath.Join(filepath.Dir(db.Path()), "records"))
		if err != nil {
			return nil, fmt.Errorf("opening badger store: %w", err)
		}
		closers = append(closers, records.Close)
		return &storage{docs: db.DocumentStore(), records: records}, nil

	case domain.StoragePostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("%w: %s is required for the postgres backend",
				domain.ErrInvalidConfiguration, services.KeyPostgresDSN)
		}
		pg, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		closers = append(closers, pg.Close)
		return &storage{docs: pg, records: pg, index: pg}, nil

	default:
		return nil, fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, cfg.Backend)
	}
}

// checkEmbedding pings the configured provider.
func checkEmbedding(ctx context.Context, settings *domain.Settings) error {
	return ai.ValidateEmbeddingConfig(ctx, &settings.Embedding)
}
