package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.EmbeddingRecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.EmbeddingRecordStore.
// Natural order is insertion order.
type RecordStore struct {
	mu      sync.RWMutex
	records []domain.EmbeddingRecord
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// Insert appends a record, assigning an ID when it has none.
func (s *RecordStore) Insert(_ context.Context, record domain.EmbeddingRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.Vector = append([]float32(nil), record.Vector...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return record.ID, nil
}

// ListAll returns at most limit records.
func (s *RecordStore) ListAll(_ context.Context, limit int) ([]domain.EmbeddingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.records)
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([]domain.EmbeddingRecord, n)
	copy(out, s.records[:n])
	return out, nil
}

// ListByResource returns the records owned by a resource.
func (s *RecordStore) ListByResource(
	_ context.Context, resourceID, resourceType string,
) ([]domain.EmbeddingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.EmbeddingRecord
	for _, r := range s.records {
		if r.ResourceID == resourceID && r.ResourceType == resourceType {
			out = append(out, r)
		}
	}
	return out, nil
}

// DeleteByResource removes the records owned by a resource.
func (s *RecordStore) DeleteByResource(_ context.Context, resourceID, resourceType string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	removed := 0
	for _, r := range s.records {
		if r.ResourceID == resourceID && r.ResourceType == resourceType {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	clear(s.records[len(kept):])
	s.records = kept
	return removed, nil
}

// Count returns the number of stored records.
func (s *RecordStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close is a no-op.
func (s *RecordStore) Close() error {
	return nil
}
