package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Natural order is insertion order; updates keep their original position.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[domain.ResourceKey]domain.Document
	order     []domain.ResourceKey
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[domain.ResourceKey]domain.Document),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := doc.Key()
	if _, ok := s.documents[key]; !ok {
		s.order = append(s.order, key)
	}
	s.documents[key] = doc
	return nil
}

// GetDocument retrieves a document.
func (s *DocumentStore) GetDocument(_ context.Context, resourceID, resourceType string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[domain.ResourceKey{Type: resourceType, ID: resourceID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// DeleteDocument removes a document.
func (s *DocumentStore) DeleteDocument(_ context.Context, resourceID, resourceType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := domain.ResourceKey{Type: resourceType, ID: resourceID}
	if _, ok := s.documents[key]; !ok {
		return nil
	}
	delete(s.documents, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListDocuments returns documents of a type, or all documents.
func (s *DocumentStore) ListDocuments(_ context.Context, resourceType string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.order))
	for _, key := range s.order {
		if resourceType != "" && key.Type != resourceType {
			continue
		}
		docs = append(docs, s.documents[key])
	}
	return docs, nil
}

// SearchText returns documents whose title or body contains query.
func (s *DocumentStore) SearchText(
	_ context.Context, query string, caseSensitive bool, limit int,
) ([]domain.Document, error) {
	if query == "" || limit <= 0 {
		return []domain.Document{}, nil
	}
	if !caseSensitive {
		query = strings.ToLower(query)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0)
	for _, key := range s.order {
		doc := s.documents[key]
		title, body := doc.Title, doc.Body
		if !caseSensitive {
			title, body = strings.ToLower(title), strings.ToLower(body)
		}
		if strings.Contains(title, query) || strings.Contains(body, query) {
			docs = append(docs, doc)
			if len(docs) == limit {
				break
			}
		}
	}
	return docs, nil
}
