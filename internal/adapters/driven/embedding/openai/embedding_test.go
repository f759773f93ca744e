package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

type fakeAPI struct {
	status    int
	embedding []float64
	lastBody  map[string]any
}

func (f *fakeAPI) serve(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if f.status != 0 && f.status != http.StatusOK {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"requests"}}`))
			return
		}

		switch r.URL.Path {
		case "/v1/models":
			_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
		case "/v1/embeddings":
			if r.Header.Get("Authorization") != "Bearer sk-test" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewDecoder(r.Body).Decode(&f.lastBody)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"object": "list",
				"model":  "text-embedding-3-small",
				"data": []map[string]any{
					{"object": "embedding", "index": 0, "embedding": f.embedding},
				},
				"usage": map[string]any{"prompt_tokens": 1, "total_tokens": 1},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewEmbeddingService(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	s, err := NewEmbeddingService(Config{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, s.ModelName())
	assert.Equal(t, 1536, s.Dimensions())

	s, err = NewEmbeddingService(Config{APIKey: "sk-test", Model: "text-embedding-3-large"})
	require.NoError(t, err)
	assert.Equal(t, 3072, s.Dimensions())
}

func TestEmbed(t *testing.T) {
	api := &fakeAPI{embedding: []float64{0.1, 0.2, 0.3}}
	srv := api.serve(t)

	s, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Dimensions: 3})
	require.NoError(t, err)

	vec, err := s.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.1, 0.2, 0.3}, vec, 1e-6)
	assert.Equal(t, "text-embedding-3-small", api.lastBody["model"])
	assert.EqualValues(t, 3, api.lastBody["dimensions"])
}

func TestEmbed_DimensionMismatch(t *testing.T) {
	api := &fakeAPI{embedding: []float64{0.1, 0.2}}
	srv := api.serve(t)

	s, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Dimensions: 3})
	require.NoError(t, err)

	_, err = s.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestEmbed_RateLimited(t *testing.T) {
	api := &fakeAPI{status: http.StatusTooManyRequests}
	srv := api.serve(t)

	s, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = s.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.ErrorIs(t, err, domain.ErrEmbeddingProvider)
	assert.True(t, domain.IsRetryable(err))
}

func TestPing(t *testing.T) {
	ok := (&fakeAPI{}).serve(t)
	s, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: ok.URL + "/v1"})
	require.NoError(t, err)
	assert.NoError(t, s.Ping(context.Background()))

	bad := (&fakeAPI{status: http.StatusUnauthorized}).serve(t)
	s, err = NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: bad.URL + "/v1"})
	require.NoError(t, err)

	err = s.Ping(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmbeddingProvider)
	assert.False(t, errors.Is(err, domain.ErrRateLimited))
}
