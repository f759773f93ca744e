package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

const documentColumns = `resource_id, resource_type, title, body, metadata, created_at, updated_at`

// SaveDocument stores or updates a document. An update keeps the row's seq.
func (s *documentStore) SaveDocument(ctx context.Context, doc domain.Document) error {
	var metadata sql.NullString
	if len(doc.Metadata) > 0 {
		raw, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		metadata = nullString(string(raw))
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (resource_id, resource_type, title, body, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(resource_type, resource_id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			metadata = excluded.metadata,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, doc.ResourceID, doc.ResourceType, doc.Title, doc.Body, metadata,
		doc.CreatedAt.UTC(), doc.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document.
func (s *documentStore) GetDocument(ctx context.Context, resourceID, resourceType string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE resource_type = ? AND resource_id = ?`,
		resourceType, resourceID)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes a document.
func (s *documentStore) DeleteDocument(ctx context.Context, resourceID, resourceType string) error {
	_, err := s.store.db.ExecContext(ctx,
		`DELETE FROM documents WHERE resource_type = ? AND resource_id = ?`, resourceType, resourceID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// ListDocuments returns documents of a type, or all documents, in seq order.
func (s *documentStore) ListDocuments(ctx context.Context, resourceType string) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	var args []any
	if resourceType != "" {
		query += ` WHERE resource_type = ?`
		args = append(args, resourceType)
	}
	query += ` ORDER BY seq`

	return s.query(ctx, query, args...)
}

// SearchText returns documents whose title or body contains query, in seq order.
func (s *documentStore) SearchText(
	ctx context.Context, query string, caseSensitive bool, limit int,
) ([]domain.Document, error) {
	if query == "" || limit <= 0 {
		return []domain.Document{}, nil
	}

	where := `instr(title, ?) > 0 OR instr(body, ?) > 0`
	if !caseSensitive {
		where = `instr(` + foldFunc + `(title), ` + foldFunc + `(?)) > 0 OR instr(` + foldFunc + `(body), ` + foldFunc + `(?)) > 0`
	}

	return s.query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE `+where+` ORDER BY seq LIMIT ?`,
		query, query, limit)
}

func (s *documentStore) query(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var metadata sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&doc.ResourceID, &doc.ResourceType, &doc.Title, &doc.Body,
		&metadata, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if metadata.Valid && metadata.String != jsonNull {
		if err := json.Unmarshal([]byte(metadata.String), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %w", err)
		}
	}
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}
	return &doc, nil
}
