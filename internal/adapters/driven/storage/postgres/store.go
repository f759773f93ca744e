package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
	"github.com/custodia-labs/notefuse/internal/logger"
)

// Store is a PostgreSQL-backed document store, record store and vector index.
type Store struct {
	pool *pgxpool.Pool
}

var (
	_ driven.DocumentStore        = (*Store)(nil)
	_ driven.EmbeddingRecordStore = (*Store)(nil)
	_ driven.VectorIndex          = (*Store)(nil)
)

// NewStore connects to the database and creates the schema if needed.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.Init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the extension, tables and indexes.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
		logger.Debug("Postgres connection pool closed")
	}
	return nil
}

// ==================== Documents ====================

const documentColumns = `resource_id, resource_type, title, body, metadata, created_at, updated_at`

// SaveDocument stores or updates a document. An update keeps the row's seq.
func (s *Store) SaveDocument(ctx context.Context, doc domain.Document) error {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO documents (resource_id, resource_type, title, body, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (resource_type, resource_id) DO UPDATE SET
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			metadata = EXCLUDED.metadata,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`, doc.ResourceID, doc.ResourceType, doc.Title, doc.Body, doc.Metadata, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document.
func (s *Store) GetDocument(ctx context.Context, resourceID, resourceType string) (*domain.Document, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE resource_type = $1 AND resource_id = $2`,
		resourceType, resourceID)

	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return doc, nil
}

// DeleteDocument removes a document.
func (s *Store) DeleteDocument(ctx context.Context, resourceID, resourceType string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE resource_type = $1 AND resource_id = $2`, resourceType, resourceID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// ListDocuments returns documents of a type, or all documents, in seq order.
func (s *Store) ListDocuments(ctx context.Context, resourceType string) ([]domain.Document, error) {
	if resourceType == "" {
		return s.queryDocuments(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY seq`)
	}
	return s.queryDocuments(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE resource_type = $1 ORDER BY seq`, resourceType)
}

// SearchText returns documents whose title or body contains query, in seq order.
func (s *Store) SearchText(ctx context.Context, query string, caseSensitive bool, limit int) ([]domain.Document, error) {
	if query == "" || limit <= 0 {
		return []domain.Document{}, nil
	}

	where := `strpos(title, $1) > 0 OR strpos(body, $1) > 0`
	if !caseSensitive {
		where = `strpos(lower(title), lower($1)) > 0 OR strpos(lower(body), lower($1)) > 0`
	}
	return s.queryDocuments(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE `+where+` ORDER BY seq LIMIT $2`, query, limit)
}

func (s *Store) queryDocuments(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	if err := row.Scan(&doc.ResourceID, &doc.ResourceType, &doc.Title, &doc.Body,
		&doc.Metadata, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ==================== Embedding records ====================

const recordColumns = `id, resource_id, resource_type, content, embedding, created_at`

// Insert appends a record, assigning an ID when it has none.
func (s *Store) Insert(ctx context.Context, record domain.EmbeddingRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO embedding_records (id, resource_id, resource_type, content, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, record.ResourceID, record.ResourceType, record.Content,
		pgvector.NewVector(record.Vector), record.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("inserting embedding record: %w", err)
	}
	return record.ID, nil
}

// ListAll returns at most limit records in seq order.
func (s *Store) ListAll(ctx context.Context, limit int) ([]domain.EmbeddingRecord, error) {
	if limit < 0 {
		return s.queryRecords(ctx, `SELECT `+recordColumns+` FROM embedding_records ORDER BY seq`)
	}
	return s.queryRecords(ctx,
		`SELECT `+recordColumns+` FROM embedding_records ORDER BY seq LIMIT $1`, limit)
}

// ListByResource returns the records owned by a resource in seq order.
func (s *Store) ListByResource(ctx context.Context, resourceID, resourceType string) ([]domain.EmbeddingRecord, error) {
	return s.queryRecords(ctx, `
		SELECT `+recordColumns+` FROM embedding_records
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY seq
	`, resourceType, resourceID)
}

// DeleteByResource removes the records owned by a resource.
func (s *Store) DeleteByResource(ctx context.Context, resourceID, resourceType string) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM embedding_records WHERE resource_type = $1 AND resource_id = $2`, resourceType, resourceID)
	if err != nil {
		return 0, fmt.Errorf("deleting embedding records: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM embedding_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting embedding records: %w", err)
	}
	return n, nil
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]domain.EmbeddingRecord, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying embedding records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.EmbeddingRecord, 0)
	for rows.Next() {
		rec, _, err := scanRecord(rows, false)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embedding records: %w", err)
	}
	return records, nil
}

func scanRecord(row pgx.Row, withSimilarity bool) (domain.EmbeddingRecord, float64, error) {
	var rec domain.EmbeddingRecord
	var vec pgvector.Vector
	var similarity float64

	dest := []any{&rec.ID, &rec.ResourceID, &rec.ResourceType, &rec.Content, &vec, &rec.CreatedAt}
	if withSimilarity {
		dest = append(dest, &similarity)
	}
	if err := row.Scan(dest...); err != nil {
		return rec, 0, fmt.Errorf("scanning embedding record: %w", err)
	}
	rec.Vector = vec.Slice()
	return rec, similarity, nil
}

// ==================== Vector index ====================

// Search ranks records of the query's dimension by cosine similarity in the
// database. Zero vectors on either side score 0, and ties keep seq order.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]domain.VectorMatch, error) {
	if k <= 0 || len(query) == 0 {
		return []domain.VectorMatch{}, nil
	}

	var rows pgx.Rows
	var err error
	if isZero(query) {
		// Cosine distance to a zero vector is NaN; every similarity is 0.
		rows, err = s.pool.Query(ctx, `
			SELECT `+recordColumns+`, 0::float8 AS similarity
			FROM embedding_records
			WHERE vector_dims(embedding) = $1
			ORDER BY seq
			LIMIT $2
		`, len(query), k)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT `+recordColumns+`,
				CASE WHEN vector_norm(embedding) = 0 THEN 0
				     ELSE 1 - (embedding <=> $1) END AS similarity
			FROM embedding_records
			WHERE vector_dims(embedding) = $2
			ORDER BY similarity DESC, seq
			LIMIT $3
		`, pgvector.NewVector(query), len(query), k)
	}
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	matches := make([]domain.VectorMatch, 0, k)
	for rows.Next() {
		rec, sim, err := scanRecord(rows, true)
		if err != nil {
			return nil, err
		}
		matches = append(matches, domain.VectorMatch{Record: rec, Similarity: sim})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vector matches: %w", err)
	}
	logger.Debug("Postgres vector search: %d matches (k=%d)", len(matches), k)
	return matches, nil
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
