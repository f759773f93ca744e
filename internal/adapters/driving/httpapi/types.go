package httpapi

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

var validate = validator.New()

// IndexRequest is the body of PUT /api/v1/resources/:type/:id.
type IndexRequest struct {
	Title string `json:"title" validate:"max=500"`
	Text  string `json:"text" validate:"required"`
}

// SearchParams are the query parameters of GET /api/v1/search.
type SearchParams struct {
	Query string `query:"q" validate:"required"`
	Limit int    `query:"limit" validate:"gte=0,lte=1000"`
}

// RelatedParams are the query parameters of the related endpoint.
type RelatedParams struct {
	Limit int `query:"limit" validate:"gte=0,lte=1000"`
}

// validateStruct returns field errors keyed by field name, or nil.
func validateStruct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		out[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
	}
	return out
}

// IndexResponse reports how many records were written.
type IndexResponse struct {
	ResourceID   string `json:"resource_id"`
	ResourceType string `json:"resource_type"`
	Chunks       int    `json:"chunks"`
}

// RemoveResponse reports how many records were removed.
type RemoveResponse struct {
	Removed int `json:"removed"`
}

// DocumentView is the JSON form of a document.
type DocumentView struct {
	ResourceID   string         `json:"resource_id"`
	ResourceType string         `json:"resource_type"`
	Title        string         `json:"title"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ResultView is the JSON form of a search result.
type ResultView struct {
	ResourceID   string        `json:"resource_id"`
	ResourceType string        `json:"resource_type"`
	Score        float64       `json:"score"`
	Snippet      string        `json:"snippet,omitempty"`
	Document     *DocumentView `json:"document,omitempty"`
}

// SearchView is the JSON form of a search response.
type SearchView struct {
	Query    string       `json:"query"`
	Results  []ResultView `json:"results"`
	Degraded bool         `json:"degraded"`
	Warnings []string     `json:"warnings,omitempty"`
}

func toResultViews(results []domain.SearchResult) []ResultView {
	out := make([]ResultView, len(results))
	for i, r := range results {
		out[i] = ResultView{
			ResourceID:   r.ResourceID,
			ResourceType: r.ResourceType,
			Score:        r.Score,
			Snippet:      r.Snippet,
		}
		if r.Document != nil {
			out[i].Document = &DocumentView{
				ResourceID:   r.Document.ResourceID,
				ResourceType: r.Document.ResourceType,
				Title:        r.Document.Title,
				Metadata:     r.Document.Metadata,
				UpdatedAt:    r.Document.UpdatedAt,
			}
		}
	}
	return out
}
