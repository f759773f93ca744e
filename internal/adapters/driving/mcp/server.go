package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/notefuse/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server exposes notefuse hybrid note search to MCP clients.
type Server struct {
	ports        *Ports
	server       *mcp.Server
	instructions string
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:        ports,
		instructions: instructions(ports),
	}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "notefuse",
		Title:   "notefuse note search",
		Version: Version,
	}, &mcp.ServerOptions{
		Instructions: s.instructions,
		Logger:       logger.Slog().With("component", "mcp"),
	})

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions tells the client which notefuse capabilities are wired.
func instructions(ports *Ports) string {
	var b strings.Builder
	b.WriteString("notefuse searches notes by meaning and by exact text, fused into one ranking.\n")
	b.WriteString("Use search for free-text questions and related_to to find notes similar to a known note ")
	b.WriteString("(identified by resource_type and resource_id).\n")
	b.WriteString("Use index_note to store or update a note; the previous version's chunks are replaced.\n")
	if ports.Document != nil {
		b.WriteString("Stored notes are readable as resources under " + uriScheme + "documents.\n")
	} else {
		b.WriteString("No document store is attached: index_note indexes text only and note resources are empty.\n")
	}
	b.WriteString("Results flagged degraded came from only one of the two search halves.")
	return b.String()
}

// Instructions returns the instructions sent to clients on initialize.
func (s *Server) Instructions() string {
	return s.instructions
}

// Handler returns the streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{
		Logger: logger.Slog().With("component", "mcp-http"),
	})
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("mcp: serving over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves streamable HTTP on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("mcp: serving streamable HTTP on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
