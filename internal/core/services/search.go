package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/logger"
)

// Search runs vector and lexical search in parallel and fuses the rankings.
//
// If one half fails the response is built from the other and flagged
// Degraded with a warning. Only both halves failing is an error.
func (s *RetrievalService) Search(ctx context.Context, query string, limit int) (*domain.SearchResponse, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	resp := &domain.SearchResponse{Query: query, Results: []domain.SearchResult{}}

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return resp, nil
	}

	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	logger.Debug("Limit: %d", limit)

	var (
		vectorResults  []domain.VectorMatch
		lexicalResults []domain.Document
		vectorErr      error
		lexicalErr     error
		wg             sync.WaitGroup
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		vectorResults, vectorErr = s.vector.Search(ctx, query, limit)
	}()

	go func() {
		defer wg.Done()
		lexicalResults, lexicalErr = s.lexical.Search(ctx, query, limit)
	}()

	wg.Wait()

	if vectorErr != nil && lexicalErr != nil {
		logger.Warn("Search: both vector and lexical searches failed")
		return nil, fmt.Errorf("search: vector=%w, lexical=%w", vectorErr, lexicalErr)
	}

	if vectorErr != nil {
		logger.Warn("Search: vector search failed, using lexical results only: %v", vectorErr)
		resp.Degraded = true
		resp.Warnings = append(resp.Warnings, "vector search unavailable: "+vectorErr.Error())
		vectorResults = nil
	}

	if lexicalErr != nil {
		logger.Warn("Search: lexical search failed, using vector results only: %v", lexicalErr)
		resp.Degraded = true
		resp.Warnings = append(resp.Warnings, "lexical search unavailable: "+lexicalErr.Error())
		lexicalResults = nil
	}

	logger.Debug("Search: fusing %d vector + %d lexical results", len(vectorResults), len(lexicalResults))
	resp.Results = Fuse(vectorResults, lexicalResults, limit, s.weights)
	logger.Info("Final results: %d (degraded=%t)", len(resp.Results), resp.Degraded)

	return resp, nil
}

// RelatedTo finds resources semantically close to the given one.
//
// The query text is the resource's stored title and body, or the
// concatenation of its records when the document is gone. The resource's
// own records never appear in the result, and each other resource appears
// at most once, scored by its best similarity.
func (s *RetrievalService) RelatedTo(
	ctx context.Context, resourceID, resourceType string, limit int,
) ([]domain.SearchResult, error) {
	if err := validateKey(resourceID, resourceType); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	self := domain.ResourceKey{Type: resourceType, ID: resourceID}

	text, err := s.relatedQueryText(ctx, self)
	if err != nil {
		return nil, err
	}
	logger.Debug("Related to %s: query text %d chars", self, len([]rune(text)))

	vec, err := s.vector.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("related to %s: %w", self, err)
	}

	// Fetch the whole candidate set so that self matches and duplicates
	// cannot crowd out other resources.
	matches, err := s.vector.Match(ctx, vec, s.cfg.CandidateCap)
	if err != nil {
		return nil, fmt.Errorf("related to %s: %w", self, err)
	}

	seen := map[domain.ResourceKey]bool{self: true}
	picked := make([]domain.VectorMatch, 0, limit)
	for _, m := range matches {
		key := m.Record.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		picked = append(picked, m)
		if len(picked) == limit {
			break
		}
	}

	if err := s.vector.Enrich(ctx, picked); err != nil {
		return nil, fmt.Errorf("related to %s: %w", self, err)
	}

	results := make([]domain.SearchResult, len(picked))
	for i, m := range picked {
		results[i] = domain.SearchResult{
			ResourceID:   m.Record.ResourceID,
			ResourceType: m.Record.ResourceType,
			Score:        m.Similarity,
			Document:     m.Document,
			Snippet:      m.Record.Content,
		}
	}
	logger.Debug("Related to %s: %d results from %d candidates", self, len(results), len(matches))
	return results, nil
}

// relatedQueryText returns the text a resource is compared by.
func (s *RetrievalService) relatedQueryText(ctx context.Context, key domain.ResourceKey) (string, error) {
	var text string

	if s.docs != nil {
		doc, err := fetchDocument(ctx, s.docs, key, s.vector.enricher.timeout)
		if err != nil {
			return "", fmt.Errorf("related to %s: %w", key, err)
		}
		if doc != nil {
			text = doc.IndexText()
		}
	}

	if strings.TrimSpace(text) == "" {
		records, err := s.records.ListByResource(ctx, key.ID, key.Type)
		if err != nil {
			return "", fmt.Errorf("related to %s: load records: %w", key, err)
		}
		if len(records) == 0 {
			return "", fmt.Errorf("related to %s: %w", key, domain.ErrNotFound)
		}
		parts := make([]string, len(records))
		for i, r := range records {
			parts[i] = r.Content
		}
		text = strings.Join(parts, "\n")
	}

	if runes := []rune(text); len(runes) > s.cfg.RelatedQueryChars {
		text = string(runes[:s.cfg.RelatedQueryChars])
	}
	return text, nil
}
