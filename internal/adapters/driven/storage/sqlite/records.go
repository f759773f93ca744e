package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
)

// recordStore implements driven.EmbeddingRecordStore.
type recordStore struct {
	store *Store
}

var _ driven.EmbeddingRecordStore = (*recordStore)(nil)

const recordColumns = `id, resource_id, resource_type, content, vector, created_at`

// Insert appends a record, assigning an ID when it has none.
func (s *recordStore) Insert(ctx context.Context, record domain.EmbeddingRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO embedding_records (id, resource_id, resource_type, content, vector, dimensions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.ResourceID, record.ResourceType, record.Content,
		encodeVector(record.Vector), len(record.Vector), record.CreatedAt.UTC())
	if err != nil {
		return "", fmt.Errorf("inserting embedding record: %w", err)
	}
	return record.ID, nil
}

// ListAll returns at most limit records in seq order.
func (s *recordStore) ListAll(ctx context.Context, limit int) ([]domain.EmbeddingRecord, error) {
	if limit < 0 {
		limit = -1 // SQLite: no limit
	}
	return s.query(ctx, `SELECT `+recordColumns+` FROM embedding_records ORDER BY seq LIMIT ?`, limit)
}

// ListByResource returns the records owned by a resource in seq order.
func (s *recordStore) ListByResource(
	ctx context.Context, resourceID, resourceType string,
) ([]domain.EmbeddingRecord, error) {
	return s.query(ctx, `
		SELECT `+recordColumns+` FROM embedding_records
		WHERE resource_type = ? AND resource_id = ?
		ORDER BY seq
	`, resourceType, resourceID)
}

// DeleteByResource removes the records owned by a resource.
func (s *recordStore) DeleteByResource(ctx context.Context, resourceID, resourceType string) (int, error) {
	res, err := s.store.db.ExecContext(ctx,
		`DELETE FROM embedding_records WHERE resource_type = ? AND resource_id = ?`, resourceType, resourceID)
	if err != nil {
		return 0, fmt.Errorf("deleting embedding records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted records: %w", err)
	}
	return int(n), nil
}

// Count returns the number of stored records.
func (s *recordStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM embedding_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting embedding records: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *recordStore) Close() error {
	return s.store.Close()
}

func (s *recordStore) query(ctx context.Context, query string, args ...any) ([]domain.EmbeddingRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying embedding records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.EmbeddingRecord, 0)
	for rows.Next() {
		var rec domain.EmbeddingRecord
		var vector []byte
		var createdAt sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.ResourceID, &rec.ResourceType, &rec.Content,
			&vector, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning embedding record: %w", err)
		}
		rec.Vector = decodeVector(vector)
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embedding records: %w", err)
	}
	return records, nil
}
