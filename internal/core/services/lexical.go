package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driven"
	"github.com/custodia-labs/notefuse/internal/logger"
)

// LexicalSearch matches query text as a substring of document titles and bodies.
// It carries no relevance scoring beyond match or no match.
type LexicalSearch struct {
	index         driven.LexicalIndex
	caseSensitive bool
}

// NewLexicalSearch creates a lexical search. Matching is case-insensitive
// unless cfg.CaseSensitive is set.
func NewLexicalSearch(index driven.LexicalIndex, cfg domain.RetrievalConfig) *LexicalSearch {
	return &LexicalSearch{index: index, caseSensitive: cfg.CaseSensitive}
}

// Search returns at most limit matching documents in the store's natural order.
func (l *LexicalSearch) Search(ctx context.Context, queryText string, limit int) ([]domain.Document, error) {
	if l.index == nil {
		return nil, fmt.Errorf("lexical search: %w", domain.ErrNotImplemented)
	}
	if strings.TrimSpace(queryText) == "" || limit <= 0 {
		return []domain.Document{}, nil
	}

	docs, err := l.index.SearchText(ctx, queryText, l.caseSensitive, limit)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}
	logger.Debug("Lexical search: %d documents (case sensitive=%t)", len(docs), l.caseSensitive)
	return docs, nil
}
