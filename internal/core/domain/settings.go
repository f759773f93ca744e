package domain

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderCompat is any OpenAI-compatible server (LocalAI, vLLM, LM Studio).
	AIProviderCompat AIProvider = "compat"

	// AIProviderHash is the offline hashing embedder. Deterministic, no network.
	AIProviderHash AIProvider = "hash"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderCompat, AIProviderHash:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs without a cloud account.
func (p AIProvider) IsLocal() bool {
	return p != AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderCompat:
		return "OpenAI-compatible server"
	case AIProviderHash:
		return "Hashing embedder (offline)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (Ollama, compat, or an OpenAI proxy).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector length. Zero means the model default.
	Dimensions int

	// RequestsPerSecond throttles provider calls. Zero disables throttling.
	RequestsPerSecond float64

	// Burst is the rate limiter bucket size.
	Burst int

	// MaxRetries is the number of retries for retryable failures. Zero disables retry.
	MaxRetries int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// StorageBackend identifies where documents and embedding records live.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite is a single-file embedded database. The default.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps everything in process memory.
	StorageMemory StorageBackend = "memory"

	// StorageBadger keeps embedding records in BadgerDB and documents in SQLite.
	StorageBadger StorageBackend = "badger"

	// StoragePostgres uses PostgreSQL with the pgvector extension.
	StoragePostgres StorageBackend = "postgres"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageMemory, StorageBadger, StoragePostgres:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageSQLite:
		return "SQLite (embedded)"
	case StorageMemory:
		return "In-memory (not persisted)"
	case StorageBadger:
		return "BadgerDB records + SQLite documents"
	case StoragePostgres:
		return "PostgreSQL + pgvector"
	default:
		return unknownDescription
	}
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	// Backend selects the storage implementation.
	Backend StorageBackend

	// DataDir is where file-based backends keep their data.
	DataDir string

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string
}

// ServerSettings holds the listen addresses of the serve command.
type ServerSettings struct {
	// HTTPAddr is the REST API listen address.
	HTTPAddr string

	// MCPAddr is the MCP streamable HTTP listen address.
	MCPAddr string
}

// Settings holds all application settings.
type Settings struct {
	Retrieval RetrievalConfig
	Embedding EmbeddingSettings
	Storage   StorageSettings
	Server    ServerSettings
}

// DefaultSettings returns settings with sensible defaults.
// The hashing embedder is the default so a fresh install works offline.
func DefaultSettings() Settings {
	return Settings{
		Retrieval: DefaultRetrievalConfig(),
		Embedding: EmbeddingSettings{
			Provider: AIProviderHash,
			Model:    DefaultEmbeddingModels()[AIProviderHash],
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
		Server: ServerSettings{
			HTTPAddr: "127.0.0.1:8765",
			MCPAddr:  "127.0.0.1:8766",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderCompat,
		AIProviderHash,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderCompat: "nomic-embed-text",
		AIProviderHash:   "fnv-hash-256",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Offline
		"fnv-hash-256": 256,
	}
}
