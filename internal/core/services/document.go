package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
	"github.com/custodia-labs/notefuse/internal/core/ports/driving"
	"github.com/custodia-labs/notefuse/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages stored documents and keeps their embedding
// records in step with them through the retrieval facade.
type DocumentService struct {
	docStore  driven.DocumentStore
	retrieval driving.RetrievalService
	now       func() time.Time
}

// NewDocumentService creates a new document service.
// retrieval may be nil, in which case documents are stored but not indexed.
func NewDocumentService(docStore driven.DocumentStore, retrieval driving.RetrievalService) *DocumentService {
	return &DocumentService{
		docStore:  docStore,
		retrieval: retrieval,
		now:       time.Now,
	}
}

// Save creates or updates a document without touching its records.
// CreatedAt of an existing document is preserved.
func (s *DocumentService) Save(ctx context.Context, doc domain.Document) error {
	if s.docStore == nil {
		return domain.ErrNotImplemented
	}
	if err := validateKey(doc.ResourceID, doc.ResourceType); err != nil {
		return err
	}

	now := s.now().UTC()
	doc.UpdatedAt = now
	existing, err := s.docStore.GetDocument(ctx, doc.ResourceID, doc.ResourceType)
	switch {
	case err == nil && existing != nil:
		doc.CreatedAt = existing.CreatedAt
	case doc.CreatedAt.IsZero():
		doc.CreatedAt = now
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("save document %s: %w", doc.Key(), err)
	}
	return nil
}

// Ingest saves the document and replaces its records with records for its
// title and body. Returns the number of records written.
func (s *DocumentService) Ingest(ctx context.Context, doc domain.Document) (int, error) {
	if err := s.Save(ctx, doc); err != nil {
		return 0, err
	}
	if s.retrieval == nil {
		logger.Warn("Document %s saved but not indexed: retrieval unavailable", doc.Key())
		return 0, nil
	}

	n, err := s.retrieval.Reindex(ctx, doc.ResourceID, doc.ResourceType, doc.IndexText())
	if err != nil {
		return n, fmt.Errorf("index document %s: %w", doc.Key(), err)
	}
	logger.Debug("Ingested %s: %d records", doc.Key(), n)
	return n, nil
}

// Get retrieves a document.
func (s *DocumentService) Get(ctx context.Context, resourceID, resourceType string) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.GetDocument(ctx, resourceID, resourceType)
}

// List returns documents of a type, or every document when resourceType is empty.
func (s *DocumentService) List(ctx context.Context, resourceType string) ([]domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.ListDocuments(ctx, resourceType)
}

// Delete removes the document and then its records, in that order.
// If the second step fails the document is already gone; calling Delete
// again finishes the job. Returns the number of records removed.
func (s *DocumentService) Delete(ctx context.Context, resourceID, resourceType string) (int, error) {
	if s.docStore == nil {
		return 0, domain.ErrNotImplemented
	}
	if err := validateKey(resourceID, resourceType); err != nil {
		return 0, err
	}
	key := domain.ResourceKey{Type: resourceType, ID: resourceID}

	if err := s.docStore.DeleteDocument(ctx, resourceID, resourceType); err != nil {
		return 0, fmt.Errorf("delete document %s: %w", key, err)
	}
	if s.retrieval == nil {
		return 0, nil
	}

	n, err := s.retrieval.Remove(ctx, resourceID, resourceType)
	if err != nil {
		return 0, fmt.Errorf("delete records of %s: %w", key, err)
	}
	logger.Debug("Deleted %s and %d records", key, n)
	return n, nil
}
