// Package mcpserver exposes the dispatcher over the Model Context
// Protocol: every catalog operation becomes a tool and every read
// endpoint becomes a resource. The adapter stays thin; argument
// contracts and response shaping live in the dispatcher and registry.
package mcpserver

import (
	"context"
	"net/http"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"taskserver/internal/dispatcher"
)

const (
	serverName    = "mcp-task-server"
	serverVersion = "1.0.0"
)

const serverInstructions = `Task management server backed by PostgreSQL.

Tools cover task CRUD, comments, categories, ad-hoc read-only SQL, and
schema introspection. Resources expose task snapshots (task://all and
one URI per status) plus the database schema (schema://database).
execute_query accepts a single SELECT statement only.`

// Server wraps an MCP protocol server around the dispatcher.
type Server struct {
	dispatcher *dispatcher.Dispatcher
	logger     *zap.Logger
	mcp        *mcpsdk.Server
}

func New(d *dispatcher.Dispatcher, logger *zap.Logger) *Server {
	s := &Server{dispatcher: d, logger: logger}
	s.mcp = mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, &mcpsdk.ServerOptions{
		Instructions: serverInstructions,
	})
	s.registerTools(s.mcp)
	s.registerResources(s.mcp)
	return s
}

// Run serves the protocol over stdin/stdout until ctx is cancelled.
// Logs go to stderr so the transport channel stays clean.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting MCP server on stdio",
		zap.String("name", serverName), zap.String("version", serverVersion))
	return s.mcp.Run(ctx, &mcpsdk.StdioTransport{})
}

// HTTPHandler returns the streamable HTTP transport for mounting on a mux.
func (s *Server) HTTPHandler() http.Handler {
	return mcpsdk.NewStreamableHTTPHandler(func(_ *http.Request) *mcpsdk.Server {
		return s.mcp
	}, nil)
}
