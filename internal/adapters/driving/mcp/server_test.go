package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil retrieval service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingRetrievalService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestServer_Instructions(t *testing.T) {
	t.Run("names the tools", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		text := server.Instructions()
		for _, tool := range []string{"search", "related_to", "index_note"} {
			assert.Contains(t, text, tool)
		}
	})

	t.Run("without document port", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)
		assert.Contains(t, server.Instructions(), "No document store is attached")
		assert.NotContains(t, server.Instructions(), "notefuse://documents")
	})

	t.Run("with document port", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Retrieval: &mockRetrievalService{},
			Document:  &mockDocumentService{},
		})
		require.NoError(t, err)
		assert.Contains(t, server.Instructions(), "notefuse://documents")
	})
}

func TestServer_Handler(t *testing.T) {
	server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
	require.NoError(t, err)
	assert.NotNil(t, server.Handler())
}

func TestPorts_Validate(t *testing.T) {
	t.Run("retrieval only is valid", func(t *testing.T) {
		ports := &Ports{Retrieval: &mockRetrievalService{}}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Retrieval: &mockRetrievalService{},
			Document:  &mockDocumentService{},
		}
		assert.NoError(t, ports.Validate())
	})
}
