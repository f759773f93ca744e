package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
	"github.com/custodia-labs/notefuse/internal/logger"
)

// Ensure BruteForceIndex implements the interface.
var _ driven.VectorIndex = (*BruteForceIndex)(nil)

// BruteForceIndex scores a bounded candidate set of records exhaustively.
// It loads at most candidateCap records per query, so records beyond the cap
// are never considered. Swap in a database-native index to lift the ceiling.
type BruteForceIndex struct {
	records      driven.EmbeddingRecordStore
	candidateCap int
}

// NewBruteForceIndex creates an exhaustive-scan vector index.
func NewBruteForceIndex(records driven.EmbeddingRecordStore, candidateCap int) *BruteForceIndex {
	if candidateCap <= 0 {
		candidateCap = domain.DefaultCandidateCap
	}
	return &BruteForceIndex{records: records, candidateCap: candidateCap}
}

// Search scores every candidate, sorts by descending similarity with ties
// kept in retrieval order, and truncates to k.
func (ix *BruteForceIndex) Search(ctx context.Context, query []float32, k int) ([]domain.VectorMatch, error) {
	if k <= 0 {
		return []domain.VectorMatch{}, nil
	}

	candidates, err := ix.records.ListAll(ctx, ix.candidateCap)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	matches := make([]domain.VectorMatch, 0, len(candidates))
	skipped := 0
	for _, rec := range candidates {
		if len(rec.Vector) != len(query) {
			skipped++
			continue
		}
		matches = append(matches, domain.VectorMatch{
			Record:     rec,
			Similarity: CosineSimilarity(query, rec.Vector),
		})
	}
	if skipped > 0 {
		logger.Warn("Vector search skipped %d records with dimension != %d", skipped, len(query))
	}
	logger.Debug("Vector search scored %d candidates (cap %d)", len(matches), ix.candidateCap)

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// VectorSearch embeds query text, searches a vector index and enriches the hits.
type VectorSearch struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	enricher *enricher
	timeout  time.Duration
}

// NewVectorSearch creates a vector search. docs may be nil, which disables enrichment.
func NewVectorSearch(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docs driven.DocumentStore,
	cfg domain.RetrievalConfig,
) *VectorSearch {
	return &VectorSearch{
		embedder: embedder,
		index:    index,
		enricher: newEnricher(docs, cfg),
		timeout:  cfg.EmbedTimeout,
	}
}

// Search returns at most limit records ordered by descending similarity to queryText.
// Hits whose document no longer exists carry a nil Document.
func (v *VectorSearch) Search(ctx context.Context, queryText string, limit int) ([]domain.VectorMatch, error) {
	vec, err := v.Embed(ctx, queryText)
	if err != nil {
		return nil, err
	}

	matches, err := v.Match(ctx, vec, limit)
	if err != nil {
		return nil, err
	}

	if err := v.Enrich(ctx, matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// Embed generates the query vector.
func (v *VectorSearch) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := embedWithTimeout(ctx, v.embedder, text, v.timeout)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(vec))
	return vec, nil
}

// Match searches the index without enrichment.
func (v *VectorSearch) Match(ctx context.Context, vec []float32, k int) ([]domain.VectorMatch, error) {
	matches, err := v.index.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("vector index search: %w", err)
	}
	return matches, nil
}

// Enrich attaches owning documents to matches in place.
func (v *VectorSearch) Enrich(ctx context.Context, matches []domain.VectorMatch) error {
	keys := make([]domain.ResourceKey, len(matches))
	for i := range matches {
		keys[i] = matches[i].Record.Key()
	}

	docs, err := v.enricher.fetch(ctx, keys)
	if err != nil {
		return err
	}
	for i := range matches {
		matches[i].Document = docs[keys[i]]
	}
	return nil
}

// enricher fetches owning documents in parallel, one fetch per distinct resource.
type enricher struct {
	docs    driven.DocumentStore
	cfg     domain.RetrievalConfig
	timeout time.Duration
}

func newEnricher(docs driven.DocumentStore, cfg domain.RetrievalConfig) *enricher {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = domain.DefaultFetchTimeout
	}
	return &enricher{docs: docs, cfg: cfg, timeout: timeout}
}

// fetch returns the documents for keys. Missing documents and unknown
// resource types map to nil. Any other failure aborts the whole fetch.
func (e *enricher) fetch(ctx context.Context, keys []domain.ResourceKey) (map[domain.ResourceKey]*domain.Document, error) {
	out := make(map[domain.ResourceKey]*domain.Document, len(keys))
	if e.docs == nil {
		return out, nil
	}

	unique := make([]domain.ResourceKey, 0, len(keys))
	for _, k := range keys {
		if _, seen := out[k]; seen || !e.cfg.IsKnownType(k.Type) {
			continue
		}
		out[k] = nil
		unique = append(unique, k)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	for _, key := range unique {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := fetchDocument(ctx, e.docs, key, e.timeout)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("enrich %s: %w", key, err)
				}
				return
			}
			if doc == nil {
				logger.Debug("Enrichment: %s no longer exists", key)
			}
			out[key] = doc
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
