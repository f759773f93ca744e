package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/notefuse/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/notefuse/internal/adapters/driving/mcp"
)

// MCP transport modes.
const (
	mcpNone  = ""
	mcpStdio = "stdio"
	mcpHTTP  = "http"
)

var (
	serveAddr    string
	serveMCP     string
	serveMCPAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API and the MCP server",
	Long: `Starts the JSON REST API. With --mcp the Model Context Protocol server is
started as well, exposing the search, related_to and index_note tools to
chat assistants.

  --mcp stdio   MCP over stdin/stdout only (no REST API; stdout is the protocol)
  --mcp http    MCP streamable HTTP on --mcp-addr next to the REST API

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "notefuse": {
        "command": "/path/to/notefuse",
        "args": ["serve", "--mcp", "stdio"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "REST API listen address (default server.http_addr)")
	serveCmd.Flags().StringVar(&serveMCP, "mcp", mcpNone, "also serve MCP: stdio or http")
	serveCmd.Flags().StringVar(&serveMCPAddr, "mcp-addr", "", "MCP HTTP listen address (default server.mcp_addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	switch serveMCP {
	case mcpNone, mcpStdio, mcpHTTP:
	default:
		return fmt.Errorf("unknown --mcp mode %q (want stdio or http)", serveMCP)
	}

	if err := ensureEngine(ctx); err != nil {
		return err
	}
	if retrievalService == nil {
		return fmt.Errorf("retrieval %w", errNotConfigured)
	}

	httpAddr, mcpAddr := serveAddr, serveMCPAddr
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			if httpAddr == "" {
				httpAddr = settings.Server.HTTPAddr
			}
			if mcpAddr == "" {
				mcpAddr = settings.Server.MCPAddr
			}
		}
	}

	var mcpServer *mcp.Server
	if serveMCP != mcpNone {
		s, err := mcp.NewServer(&mcp.Ports{Retrieval: retrievalService, Document: documentService})
		if err != nil {
			return err
		}
		mcpServer = s
	}

	if serveMCP == mcpStdio {
		return mcpServer.Run(ctx)
	}

	api, err := httpapi.NewServer(retrievalService, documentService)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Run(gctx, httpAddr)
	})
	cmd.Printf("REST API listening on http://%s\n", httpAddr)

	if mcpServer != nil {
		g.Go(func() error {
			return mcpServer.RunHTTP(gctx, mcpAddr)
		})
		cmd.Printf("MCP server listening on http://%s\n", mcpAddr)
	}
	return g.Wait()
}
