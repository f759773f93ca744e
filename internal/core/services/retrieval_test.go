package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notefuse/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/postprocessors/chunker"
)

type testEngine struct {
	svc      *RetrievalService
	embedder *mockEmbeddingService
	records  *memory.RecordStore
	docs     *memory.DocumentStore
}

func newTestEngine(t *testing.T, cfg domain.RetrievalConfig, opts ...Option) *testEngine {
	t.Helper()
	e := &testEngine{
		embedder: &mockEmbeddingService{},
		records:  memory.NewRecordStore(),
		docs:     memory.NewDocumentStore(),
	}
	svc, err := NewRetrievalService(e.embedder, e.records, nil, nil, e.docs, cfg, opts...)
	require.NoError(t, err)
	e.svc = svc
	return e
}

// ingest stores a document and indexes its text.
func (e *testEngine) ingest(t *testing.T, d domain.Document) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.docs.SaveDocument(ctx, d))
	_, err := e.svc.Index(ctx, d.ResourceID, d.ResourceType, d.IndexText())
	require.NoError(t, err)
}

func TestNewRetrievalService_Validation(t *testing.T) {
	records := memory.NewRecordStore()

	t.Run("invalid config", func(t *testing.T) {
		cfg := domain.DefaultRetrievalConfig()
		cfg.Overlap = cfg.ChunkSize
		_, err := NewRetrievalService(&mockEmbeddingService{}, records, nil, nil, nil, cfg)
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("missing record store", func(t *testing.T) {
		_, err := NewRetrievalService(&mockEmbeddingService{}, nil, nil, nil, nil, domain.DefaultRetrievalConfig())
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("defaults", func(t *testing.T) {
		svc, err := NewRetrievalService(&mockEmbeddingService{}, records, nil, nil, nil, domain.DefaultRetrievalConfig())
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultChunkSize, svc.chunker.ChunkSize())
		assert.Equal(t, domain.DefaultChunkOverlap, svc.chunker.Overlap())
		assert.Equal(t, FusionWeights{Vector: 1.0, Lexical: 0.5}, svc.weights)
		assert.Equal(t, domain.DefaultRetrievalConfig(), svc.Config())
	})

	t.Run("options", func(t *testing.T) {
		proc, err := chunker.New(chunker.WithChunkSize(10), chunker.WithOverlap(2))
		require.NoError(t, err)
		svc, err := NewRetrievalService(&mockEmbeddingService{}, records, nil, nil, nil,
			domain.DefaultRetrievalConfig(), WithChunker(proc), WithFusionWeights(FusionWeights{Vector: 2}))
		require.NoError(t, err)
		assert.Equal(t, 10, svc.chunker.ChunkSize())
		assert.Equal(t, FusionWeights{Vector: 2}, svc.weights)
	})
}

func TestRetrievalService_Index(t *testing.T) {
	cfg := testConfig()
	cfg.ChunkSize = 4
	cfg.Overlap = 1
	e := newTestEngine(t, cfg)
	ctx := context.Background()

	n, err := e.svc.Index(ctx, "1", "note", "abcdefghij")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.ElementsMatch(t, []string{"abcd", "defg", "ghij"}, e.embedder.embeddedTexts())

	// Indexing again appends.
	n, err = e.svc.Index(ctx, "1", "note", "abcdefghij")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	count, err := e.records.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestRetrievalService_Index_ShortAndEmptyText(t *testing.T) {
	e := newTestEngine(t, testConfig())
	ctx := context.Background()

	n, err := e.svc.Index(ctx, "1", "note", "short")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = e.svc.Index(ctx, "2", "note", "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRetrievalService_Index_InvalidKey(t *testing.T) {
	e := newTestEngine(t, testConfig())

	_, err := e.svc.Index(context.Background(), "", "note", "text")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.svc.Index(context.Background(), "1", "", "text")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetrievalService_Index_PartialFailure(t *testing.T) {
	cfg := testConfig()
	cfg.ChunkSize = 4
	cfg.Overlap = 0
	cfg.Workers = 1
	e := newTestEngine(t, cfg)
	e.embedder.failOn = "FAIL"

	n, err := e.svc.Index(context.Background(), "1", "note", "okayFAILmore")
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, domain.ErrEmbeddingGenerationFailed)
	assert.Equal(t, 1, domain.PersistedCount(err))
}

func TestRetrievalService_Reindex(t *testing.T) {
	e := newTestEngine(t, testConfig())
	ctx := context.Background()

	_, err := e.svc.Index(ctx, "1", "note", "old apple")
	require.NoError(t, err)
	_, err = e.svc.Index(ctx, "2", "note", "other car")
	require.NoError(t, err)

	n, err := e.svc.Reindex(ctx, "1", "note", "new banana")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	recs, err := e.records.ListByResource(ctx, "1", "note")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "new banana", recs[0].Content)

	others, err := e.records.ListByResource(ctx, "2", "note")
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestRetrievalService_Reindex_DeleteFailure(t *testing.T) {
	records := &failingRecordStore{RecordStore: memory.NewRecordStore(), deleteErr: errors.New("locked")}
	embedder := &mockEmbeddingService{}
	svc, err := NewRetrievalService(embedder, records, nil, nil, nil, testConfig())
	require.NoError(t, err)

	_, err = svc.Reindex(context.Background(), "1", "note", "apple")
	assert.ErrorContains(t, err, "locked")
	assert.Zero(t, embedder.calls.Load(), "nothing is indexed when the old records remain")
}

func TestRetrievalService_Remove(t *testing.T) {
	e := newTestEngine(t, testConfig())
	ctx := context.Background()

	_, err := e.svc.Index(ctx, "1", "note", "apple")
	require.NoError(t, err)
	_, err = e.svc.Index(ctx, "1", "note", "banana")
	require.NoError(t, err)

	n, err := e.svc.Remove(ctx, "1", "note")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = e.svc.Remove(ctx, "1", "note")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = e.svc.Remove(ctx, "", "note")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
