package mcp

import (
	"context"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	response *domain.SearchResponse
	related  []domain.SearchResult
	indexed  int
	err      error

	lastQuery string
	lastLimit int
	lastText  string
	lastType  string
}

func (m *mockRetrievalService) Index(_ context.Context, _, resourceType, text string) (int, error) {
	m.lastType, m.lastText = resourceType, text
	return m.indexed, m.err
}

func (m *mockRetrievalService) Reindex(_ context.Context, _, resourceType, text string) (int, error) {
	m.lastType, m.lastText = resourceType, text
	return m.indexed, m.err
}

func (m *mockRetrievalService) Remove(_ context.Context, _, _ string) (int, error) {
	return 0, m.err
}

func (m *mockRetrievalService) Search(_ context.Context, query string, limit int) (*domain.SearchResponse, error) {
	m.lastQuery, m.lastLimit = query, limit
	if m.err != nil {
		return nil, m.err
	}
	if m.response == nil {
		return &domain.SearchResponse{Query: query}, nil
	}
	return m.response, nil
}

func (m *mockRetrievalService) RelatedTo(_ context.Context, _, _ string, limit int) ([]domain.SearchResult, error) {
	m.lastLimit = limit
	return m.related, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	ingested  []domain.Document
	chunks    int
	err       error
}

func (m *mockDocumentService) Save(_ context.Context, _ domain.Document) error {
	return m.err
}

func (m *mockDocumentService) Ingest(_ context.Context, doc domain.Document) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.ingested = append(m.ingested, doc)
	return m.chunks, nil
}

func (m *mockDocumentService) Get(_ context.Context, _, _ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.document == nil {
		return nil, domain.ErrNotFound
	}
	return m.document, nil
}

func (m *mockDocumentService) List(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _, _ string) (int, error) {
	return 0, m.err
}
