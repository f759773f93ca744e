package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/core/ports/driving"
)

// ResourceHandler serves indexing, search and related lookups.
type ResourceHandler struct {
	retrieval driving.RetrievalService
	documents driving.DocumentService
}

// NewResourceHandler creates a handler. documents may be nil, in which case
// only embedding records are written and removed.
func NewResourceHandler(retrieval driving.RetrievalService, documents driving.DocumentService) *ResourceHandler {
	return &ResourceHandler{retrieval: retrieval, documents: documents}
}

// HandleHealth reports that the server is up.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"result": "ok"})
}

// HandlePut stores and reindexes a resource.
func (h *ResourceHandler) HandlePut(c *fiber.Ctx) error {
	var req IndexRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrBadRequest()
	}
	if errs := validateStruct(&req); len(errs) > 0 {
		return NewValidationError(errs)
	}

	doc := domain.Document{
		ResourceID:   c.Params("id"),
		ResourceType: c.Params("type"),
		Title:        req.Title,
		Body:         req.Text,
	}

	var (
		n   int
		err error
	)
	if h.documents != nil {
		n, err = h.documents.Ingest(c.UserContext(), doc)
	} else {
		n, err = h.retrieval.Reindex(c.UserContext(), doc.ResourceID, doc.ResourceType, doc.IndexText())
	}
	if err != nil {
		return err
	}

	return c.JSON(IndexResponse{
		ResourceID:   doc.ResourceID,
		ResourceType: doc.ResourceType,
		Chunks:       n,
	})
}

// HandleDelete removes a resource and its records.
func (h *ResourceHandler) HandleDelete(c *fiber.Ctx) error {
	id, typ := c.Params("id"), c.Params("type")

	var (
		n   int
		err error
	)
	if h.documents != nil {
		n, err = h.documents.Delete(c.UserContext(), id, typ)
	} else {
		n, err = h.retrieval.Remove(c.UserContext(), id, typ)
	}
	if err != nil {
		return err
	}
	return c.JSON(RemoveResponse{Removed: n})
}

// HandleSearch runs a hybrid search.
func (h *ResourceHandler) HandleSearch(c *fiber.Ctx) error {
	var params SearchParams
	if err := c.QueryParser(&params); err != nil {
		return NewError(fiber.StatusBadRequest, "invalid query parameters")
	}
	if errs := validateStruct(&params); len(errs) > 0 {
		return NewValidationError(errs)
	}

	resp, err := h.retrieval.Search(c.UserContext(), params.Query, params.Limit)
	if err != nil {
		return err
	}

	return c.JSON(SearchView{
		Query:    resp.Query,
		Results:  toResultViews(resp.Results),
		Degraded: resp.Degraded,
		Warnings: resp.Warnings,
	})
}

// HandleRelated lists resources similar to the one in the path.
func (h *ResourceHandler) HandleRelated(c *fiber.Ctx) error {
	var params RelatedParams
	if err := c.QueryParser(&params); err != nil {
		return NewError(fiber.StatusBadRequest, "invalid query parameters")
	}
	if errs := validateStruct(&params); len(errs) > 0 {
		return NewValidationError(errs)
	}

	results, err := h.retrieval.RelatedTo(c.UserContext(), c.Params("id"), c.Params("type"), params.Limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"results": toResultViews(results)})
}
