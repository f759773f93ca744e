package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
	"github.com/custodia-labs/notefuse/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyChunkSize         = "retrieval.chunk_size"
	KeyOverlap           = "retrieval.overlap"
	KeyVectorWeight      = "retrieval.vector_weight"
	KeyLexicalWeight     = "retrieval.lexical_weight"
	KeyCandidateCap      = "retrieval.candidate_cap"
	KeyDefaultLimit      = "retrieval.default_limit"
	KeyCaseSensitive     = "retrieval.case_sensitive"
	KeyKnownTypes        = "retrieval.known_types"
	KeyEmbedTimeout      = "retrieval.embed_timeout"
	KeyFetchTimeout      = "retrieval.fetch_timeout"
	KeyWorkers           = "retrieval.workers"
	KeyRelatedQueryChars = "retrieval.related_query_chars"

	KeyEmbedProvider   = "embedding.provider"
	KeyEmbedModel      = "embedding.model"
	KeyEmbedBaseURL    = "embedding.base_url"
	KeyEmbedAPIKey     = "embedding.api_key"
	KeyEmbedDimensions = "embedding.dimensions"
	KeyEmbedRPS        = "embedding.requests_per_second"
	KeyEmbedBurst      = "embedding.burst"
	KeyEmbedMaxRetries = "embedding.max_retries"

	KeyStorageBackend = "storage.backend"
	KeyDataDir        = "storage.data_dir"
	KeyPostgresDSN    = "storage.postgres_dsn"

	KeyHTTPAddr = "server.http_addr"
	KeyMCPAddr  = "server.mcp_addr"
)

// fieldsOf maps every setting key to the field it populates.
func fieldsOf(s *domain.Settings) map[string]any {
	return map[string]any{
		KeyChunkSize:         &s.Retrieval.ChunkSize,
		KeyOverlap:           &s.Retrieval.Overlap,
		KeyVectorWeight:      &s.Retrieval.VectorWeight,
		KeyLexicalWeight:     &s.Retrieval.LexicalWeight,
		KeyCandidateCap:      &s.Retrieval.CandidateCap,
		KeyDefaultLimit:      &s.Retrieval.DefaultLimit,
		KeyCaseSensitive:     &s.Retrieval.CaseSensitive,
		KeyKnownTypes:        &s.Retrieval.KnownResourceTypes,
		KeyEmbedTimeout:      &s.Retrieval.EmbedTimeout,
		KeyFetchTimeout:      &s.Retrieval.FetchTimeout,
		KeyWorkers:           &s.Retrieval.Workers,
		KeyRelatedQueryChars: &s.Retrieval.RelatedQueryChars,

		KeyEmbedProvider:   &s.Embedding.Provider,
		KeyEmbedModel:      &s.Embedding.Model,
		KeyEmbedBaseURL:    &s.Embedding.BaseURL,
		KeyEmbedAPIKey:     &s.Embedding.APIKey,
		KeyEmbedDimensions: &s.Embedding.Dimensions,
		KeyEmbedRPS:        &s.Embedding.RequestsPerSecond,
		KeyEmbedBurst:      &s.Embedding.Burst,
		KeyEmbedMaxRetries: &s.Embedding.MaxRetries,

		KeyStorageBackend: &s.Storage.Backend,
		KeyDataDir:        &s.Storage.DataDir,
		KeyPostgresDSN:    &s.Storage.PostgresDSN,

		KeyHTTPAddr: &s.Server.HTTPAddr,
		KeyMCPAddr:  &s.Server.MCPAddr,
	}
}

// SettingKeys returns every recognised setting key in sorted order.
func SettingKeys() []string {
	var s domain.Settings
	fields := fieldsOf(&s)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SettingsFromConfig overlays configured values on the defaults.
// Keys absent from the store keep their default.
func SettingsFromConfig(store driven.ConfigStore) domain.Settings {
	settings := domain.DefaultSettings()
	if store == nil {
		return settings
	}
	providerSet := false

	for key, field := range fieldsOf(&settings) {
		if _, ok := store.Get(key); !ok {
			continue
		}
		switch f := field.(type) {
		case *int:
			*f = store.GetInt(key)
		case *float64:
			*f = store.GetFloat(key)
		case *bool:
			*f = store.GetBool(key)
		case *string:
			*f = store.GetString(key)
		case *time.Duration:
			*f = store.GetDuration(key)
		case *[]string:
			*f = store.GetStringSlice(key)
		case *domain.AIProvider:
			*f = domain.AIProvider(store.GetString(key))
			providerSet = true
		case *domain.StorageBackend:
			*f = domain.StorageBackend(store.GetString(key))
		}
	}

	emb := &settings.Embedding
	if providerSet {
		if _, ok := store.Get(KeyEmbedModel); !ok {
			emb.Model = domain.DefaultEmbeddingModels()[emb.Provider]
		}
	}
	if emb.Dimensions == 0 {
		emb.Dimensions = domain.EmbeddingDimensions()[emb.Model]
	}
	return settings
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := SettingsFromConfig(s.configStore)
	return &settings, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Keys returns the recognised setting keys.
func (s *SettingsService) Keys() []string {
	return SettingKeys()
}

// Path returns the config file path.
func (s *SettingsService) Path() string {
	if s.configStore == nil {
		return ""
	}
	return s.configStore.Path()
}

// Set parses value according to the type of the setting and persists it.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}

	var probe domain.Settings
	field, ok := fieldsOf(&probe)[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseSetting(field, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// parseSetting converts a raw string to the value persisted for field.
// Durations are kept in their string form so the file stays readable.
func parseSetting(field any, value string) (any, error) {
	switch field.(type) {
	case *int:
		return strconv.Atoi(value)
	case *float64:
		return strconv.ParseFloat(value, 64)
	case *bool:
		return strconv.ParseBool(value)
	case *string:
		return value, nil
	case *time.Duration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, err
		}
		return d.String(), nil
	case *[]string:
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	case *domain.AIProvider:
		if p := domain.AIProvider(value); !p.IsValid() {
			return nil, fmt.Errorf("unknown provider %q", value)
		}
		return value, nil
	case *domain.StorageBackend:
		if b := domain.StorageBackend(value); !b.IsValid() {
			return nil, fmt.Errorf("unknown storage backend %q", value)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("unsupported setting type %T", field)
	}
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return ValidateSettings(*settings)
}

// ValidateSettings checks a complete settings value.
func ValidateSettings(settings domain.Settings) error {
	var errs []error

	if err := ValidateRetrievalConfig(settings.Retrieval); err != nil {
		errs = append(errs, err)
	}

	emb := settings.Embedding
	switch {
	case !emb.Provider.IsValid():
		errs = append(errs, fmt.Errorf("%w: unknown embedding provider %q",
			domain.ErrInvalidConfiguration, emb.Provider))
	case !emb.IsConfigured():
		errs = append(errs, fmt.Errorf("%w: %s requires an API key",
			domain.ErrInvalidConfiguration, emb.Provider.Description()))
	}
	if emb.Dimensions < 0 || emb.Burst < 0 || emb.MaxRetries < 0 || emb.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("%w: embedding limits must not be negative", domain.ErrInvalidConfiguration))
	}

	st := settings.Storage
	switch {
	case !st.Backend.IsValid():
		errs = append(errs, fmt.Errorf("%w: unknown storage backend %q",
			domain.ErrInvalidConfiguration, st.Backend))
	case st.Backend == domain.StoragePostgres && st.PostgresDSN == "":
		errs = append(errs, fmt.Errorf("%w: %s requires %s",
			domain.ErrInvalidConfiguration, st.Backend.Description(), KeyPostgresDSN))
	}

	return errors.Join(errs...)
}
