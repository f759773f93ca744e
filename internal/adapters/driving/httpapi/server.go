package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/notefuse/internal/core/ports/driving"
	"github.com/custodia-labs/notefuse/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("httpapi: retrieval service is required")

// Server is the REST API server.
type Server struct {
	app *fiber.App
}

// NewServer builds the fiber app and registers the routes.
// documents is optional.
func NewServer(retrieval driving.RetrievalService, documents driving.DocumentService) (*Server, error) {
	if retrieval == nil {
		return nil, ErrMissingRetrievalService
	}

	var (
		app = fiber.New(fiber.Config{
			ErrorHandler:          ErrorHandler,
			DisableStartupMessage: true,
			// Path params are stored past the request lifetime.
			Immutable: true,
		})
		resources = NewResourceHandler(retrieval, documents)
		check     = app.Group("/check")
		apiv1     = app.Group("/api/v1")
	)

	check.Get("/health", HandleHealth)
	apiv1.Get("/search", resources.HandleSearch)
	apiv1.Put("/resources/:type/:id", resources.HandlePut)
	apiv1.Delete("/resources/:type/:id", resources.HandleDelete)
	apiv1.Get("/resources/:type/:id/related", resources.HandleRelated)

	return &Server{app: app}, nil
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.app.ShutdownWithContext(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("http: listening on %s", addr)
	return s.app.Listen(addr)
}
