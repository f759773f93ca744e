package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
)

// RecordStore implements driven.EmbeddingRecordStore on BadgerDB.
type RecordStore struct {
	db   *badger.DB
	seq  *badger.Sequence
	path string
}

var _ driven.EmbeddingRecordStore = (*RecordStore)(nil)

// Open opens a record store in dir. An empty dir opens an in-memory
// database, which is what tests use.
func Open(dir string) (*RecordStore, error) {
	db, err := openDB(dir)
	if err != nil {
		return nil, err
	}

	seq, err := db.GetSequence([]byte(recordSeqKey), defaultSequenceBandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("acquiring record sequence: %w", err)
	}

	return &RecordStore{db: db, seq: seq, path: dir}, nil
}

// Path returns the database directory, empty for in-memory stores.
func (s *RecordStore) Path() string {
	return s.path
}

// Insert appends a record, assigning an ID when it has none.
func (s *RecordStore) Insert(ctx context.Context, record domain.EmbeddingRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	n, err := s.nextSeq()
	if err != nil {
		return "", err
	}

	value, err := json.Marshal(toStored(record))
	if err != nil {
		return "", fmt.Errorf("encoding record: %w", err)
	}

	err = s.db.Update(func(tx *badger.Txn) error {
		if err := tx.Set(makeRecordKey(n), value); err != nil {
			return err
		}
		return tx.Set(makeResourceKey(record.ResourceType, record.ResourceID, n), nil)
	})
	if err != nil {
		return "", fmt.Errorf("inserting record: %w", err)
	}
	return record.ID, nil
}

// nextSeq returns the next record sequence number.
// BadgerDB sequences can return 0 on first call, so it is skipped.
func (s *RecordStore) nextSeq() (uint64, error) {
	n, err := s.seq.Next()
	if err == nil && n == 0 {
		n, err = s.seq.Next()
	}
	if err != nil {
		return 0, fmt.Errorf("next record sequence: %w", err)
	}
	return n, nil
}

// ListAll returns at most limit records in insertion order.
func (s *RecordStore) ListAll(ctx context.Context, limit int) ([]domain.EmbeddingRecord, error) {
	records := make([]domain.EmbeddingRecord, 0)
	if limit == 0 {
		return records, nil
	}

	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := decodeItem(iter.Item())
			if err != nil {
				return err
			}
			records = append(records, rec)
			if limit > 0 && len(records) == limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

// ListByResource returns the records owned by a resource in insertion order.
func (s *RecordStore) ListByResource(
	ctx context.Context, resourceID, resourceType string,
) ([]domain.EmbeddingRecord, error) {
	records := make([]domain.EmbeddingRecord, 0)

	err := s.db.View(func(tx *badger.Txn) error {
		seqs, err := resourceSeqs(tx, resourceType, resourceID)
		if err != nil {
			return err
		}
		for _, n := range seqs {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := tx.Get(makeRecordKey(n))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			rec, err := decodeItem(item)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing records of %s/%s: %w", resourceType, resourceID, err)
	}
	return records, nil
}

// DeleteByResource removes the records owned by a resource.
func (s *RecordStore) DeleteByResource(ctx context.Context, resourceID, resourceType string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	removed := 0
	err := s.db.Update(func(tx *badger.Txn) error {
		seqs, err := resourceSeqs(tx, resourceType, resourceID)
		if err != nil {
			return err
		}
		for _, n := range seqs {
			if err := tx.Delete(makeRecordKey(n)); err != nil {
				return err
			}
			if err := tx.Delete(makeResourceKey(resourceType, resourceID, n)); err != nil {
				return err
			}
		}
		removed = len(seqs)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("deleting records of %s/%s: %w", resourceType, resourceID, err)
	}
	return removed, nil
}

// Count returns the number of stored records.
func (s *RecordStore) Count(_ context.Context) (int, error) {
	n := 0
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Close releases the sequence and closes the database.
func (s *RecordStore) Close() error {
	var errs []error
	if err := s.seq.Release(); err != nil {
		errs = append(errs, fmt.Errorf("releasing sequence: %w", err))
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// resourceSeqs returns the record seqs indexed under a resource.
func resourceSeqs(tx *badger.Txn, resourceType, resourceID string) ([]uint64, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeResourcePrefix(resourceType, resourceID)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var seqs []uint64
	for iter.Rewind(); iter.Valid(); iter.Next() {
		seqs = append(seqs, seqFromResourceKey(iter.Item().Key()))
	}
	return seqs, nil
}

// storedRecord is the JSON value written under a record key.
type storedRecord struct {
	ID           string    `json:"id"`
	ResourceID   string    `json:"resource_id"`
	ResourceType string    `json:"resource_type"`
	Content      string    `json:"content"`
	Vector       []float32 `json:"vector"`
	CreatedAt    time.Time `json:"created_at"`
}

func toStored(r domain.EmbeddingRecord) storedRecord {
	return storedRecord{
		ID:           r.ID,
		ResourceID:   r.ResourceID,
		ResourceType: r.ResourceType,
		Content:      r.Content,
		Vector:       r.Vector,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

func decodeItem(item *badger.Item) (domain.EmbeddingRecord, error) {
	var sr storedRecord
	err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &sr)
	})
	if err != nil {
		return domain.EmbeddingRecord{}, fmt.Errorf("decoding record %x: %w", item.Key(), err)
	}
	return domain.EmbeddingRecord{
		ID:           sr.ID,
		ResourceID:   sr.ResourceID,
		ResourceType: sr.ResourceType,
		Content:      sr.Content,
		Vector:       sr.Vector,
		CreatedAt:    sr.CreatedAt,
	}, nil
}
