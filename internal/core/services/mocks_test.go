package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/notefuse/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
)

// --- Mock implementations ---

var errProviderDown = errors.New("provider down")

// testVocab gives mockEmbeddingService one dimension per word.
var testVocab = []string{"apple", "banana", "car", "engine"}

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Each dimension counts the occurrences of one vocabulary word.
type mockEmbeddingService struct {
	err     error
	failOn  string
	block   bool
	vectors map[string][]float32
	calls   atomic.Int64

	mu    sync.Mutex
	texts []string
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.failOn != "" && strings.Contains(text, m.failOn) {
		return nil, errProviderDown
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}

	lower := strings.ToLower(text)
	vec := make([]float32, len(testVocab))
	for i, word := range testVocab {
		vec[i] = float32(strings.Count(lower, word))
	}
	return vec, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(testVocab)
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-vocab"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return m.err
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

func (m *mockEmbeddingService) embeddedTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	matches   []domain.VectorMatch
	searchErr error
	lastK     int
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]domain.VectorMatch, error) {
	m.lastK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k < len(m.matches) {
		return m.matches[:k], nil
	}
	return m.matches, nil
}

// mockLexicalIndex implements driven.LexicalIndex for testing.
type mockLexicalIndex struct {
	docs          []domain.Document
	err           error
	caseSensitive bool
}

func (m *mockLexicalIndex) SearchText(
	_ context.Context, _ string, caseSensitive bool, limit int,
) ([]domain.Document, error) {
	m.caseSensitive = caseSensitive
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.docs) {
		return m.docs[:limit], nil
	}
	return m.docs, nil
}

// failingDocStore wraps the memory store and fails selected operations.
type failingDocStore struct {
	*memory.DocumentStore
	getErr    error
	deleteErr error
	gets      atomic.Int64
}

func (s *failingDocStore) GetDocument(ctx context.Context, id, typ string) (*domain.Document, error) {
	s.gets.Add(1)
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.DocumentStore.GetDocument(ctx, id, typ)
}

func (s *failingDocStore) DeleteDocument(ctx context.Context, id, typ string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.DocumentStore.DeleteDocument(ctx, id, typ)
}

// failingRecordStore wraps the memory store and fails selected operations.
type failingRecordStore struct {
	*memory.RecordStore
	listErr   error
	deleteErr error
}

func (s *failingRecordStore) ListAll(ctx context.Context, limit int) ([]domain.EmbeddingRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.RecordStore.ListAll(ctx, limit)
}

func (s *failingRecordStore) DeleteByResource(ctx context.Context, id, typ string) (int, error) {
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	return s.RecordStore.DeleteByResource(ctx, id, typ)
}

// Compile-time checks.
var (
	_ driven.EmbeddingService     = (*mockEmbeddingService)(nil)
	_ driven.VectorIndex          = (*mockVectorIndex)(nil)
	_ driven.LexicalIndex         = (*mockLexicalIndex)(nil)
	_ driven.DocumentStore        = (*failingDocStore)(nil)
	_ driven.EmbeddingRecordStore = (*failingRecordStore)(nil)
)

// testConfig returns defaults tuned for small test inputs.
func testConfig() domain.RetrievalConfig {
	cfg := domain.DefaultRetrievalConfig()
	cfg.ChunkSize = 40
	cfg.Overlap = 5
	return cfg
}

func record(id, typ, content string, vec ...float32) domain.EmbeddingRecord {
	return domain.EmbeddingRecord{ResourceID: id, ResourceType: typ, Content: content, Vector: vec}
}

func doc(id, typ, title, body string) domain.Document {
	return domain.Document{ResourceID: id, ResourceType: typ, Title: title, Body: body}
}
