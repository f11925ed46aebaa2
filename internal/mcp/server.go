// ABOUTME: MCP server setup for the driver health store.
// ABOUTME: Wires storage and the derived-summary engines behind MCP tools.
package mcp

import (
	"context"

	"github.com/harperreed/driver/internal/coaching"
	"github.com/harperreed/driver/internal/ingest"
	"github.com/harperreed/driver/internal/report"
	"github.com/harperreed/driver/internal/storage"
	"github.com/harperreed/driver/internal/training"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage and engine access.
type Server struct {
	mcpServer   *mcp.Server
	db          *storage.DB
	reconciler  *ingest.Reconciler
	suggestions *training.Engine
	digests     *coaching.Generator
	reports     *report.Builder
}

// NewServer creates a new MCP server over the given store.
func NewServer(db *storage.DB) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "driver",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer:   mcpServer,
		db:          db,
		reconciler:  ingest.NewReconciler(db, nil),
		suggestions: training.NewEngine(db),
		digests:     coaching.NewGenerator(db),
		reports:     report.NewBuilder(db),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
