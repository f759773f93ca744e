package services

import (
	"sort"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

// FusionWeights scales the two halves of a fused score.
type FusionWeights struct {
	Vector  float64
	Lexical float64
}

// WeightsFromConfig returns the fusion weights of a retrieval config.
func WeightsFromConfig(cfg domain.RetrievalConfig) FusionWeights {
	return FusionWeights{Vector: cfg.VectorWeight, Lexical: cfg.LexicalWeight}
}

// Fuse merges vector and lexical rankings with weighted rank-position scoring.
//
// A vector hit at position i of N scores similarity * (N - i) * w.Vector.
// A lexical hit at position j of M scores (M - j) * w.Lexical.
// Scores for one resource are summed. Every resource from either list is
// kept; ordering is by descending score, ties by first appearance (vector
// list first). A non-positive limit keeps everything.
func Fuse(vector []domain.VectorMatch, lexical []domain.Document, limit int, w FusionWeights) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(vector)+len(lexical))
	position := make(map[domain.ResourceKey]int, len(vector)+len(lexical))

	slot := func(key domain.ResourceKey) *domain.SearchResult {
		if i, ok := position[key]; ok {
			return &results[i]
		}
		position[key] = len(results)
		results = append(results, domain.SearchResult{ResourceID: key.ID, ResourceType: key.Type})
		return &results[len(results)-1]
	}

	n := len(vector)
	for i := range vector {
		m := &vector[i]
		r := slot(m.Record.Key())
		r.Score += m.Similarity * float64(n-i) * w.Vector
		if r.Snippet == "" {
			r.Snippet = m.Record.Content
		}
		if r.Document == nil && m.Document != nil {
			r.Document = m.Document
		}
	}

	n = len(lexical)
	for j := range lexical {
		r := slot(lexical[j].Key())
		r.Score += float64(n-j) * w.Lexical
		if r.Document == nil {
			doc := lexical[j]
			r.Document = &doc
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
