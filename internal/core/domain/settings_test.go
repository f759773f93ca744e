package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	for _, p := range AllEmbeddingProviders() {
		assert.True(t, p.IsValid(), p.String())
		assert.NotEqual(t, unknownDescription, p.Description())
	}
	assert.False(t, AIProvider("anthropic").IsValid())
	assert.Equal(t, unknownDescription, AIProvider("").Description())
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.False(t, AIProviderHash.RequiresAPIKey())
	assert.True(t, AIProviderCompat.IsLocal())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{"empty", EmbeddingSettings{}, false},
		{"ollama", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"openai without key", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}, true},
		{"unknown provider", EmbeddingSettings{Provider: "cohere"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestStorageBackend_IsValid(t *testing.T) {
	for _, b := range []StorageBackend{StorageSQLite, StorageMemory, StorageBadger, StoragePostgres} {
		assert.True(t, b.IsValid(), b.String())
		assert.NotEqual(t, unknownDescription, b.Description())
	}
	assert.False(t, StorageBackend("redis").IsValid())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, StorageSQLite, s.Storage.Backend)
	assert.Equal(t, AIProviderHash, s.Embedding.Provider)
	assert.True(t, s.Embedding.IsConfigured())
	assert.Equal(t, 256, EmbeddingDimensions()[s.Embedding.Model])
	assert.Equal(t, DefaultRetrievalConfig(), s.Retrieval)
}
