package driving

import "github.com/custodia-labs/notefuse/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, defaults filled in.
	Get() (*domain.Settings, error)

	// Set parses and persists a single setting by key, e.g. "retrieval.chunk_size".
	// Unknown keys and unparsable values fail with domain.ErrInvalidInput.
	Set(key, value string) error

	// Keys returns the recognised setting keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Validate checks that current settings are usable.
	Validate() error

	// Path returns where settings are persisted.
	Path() string
}
