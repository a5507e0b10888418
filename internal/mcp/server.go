package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/enfoco/enfoco/internal/catalog"
	"github.com/enfoco/enfoco/internal/gateway"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the gateway operations as tools.
type Server struct {
	gateway gateway.Gateway
	catalog *catalog.Catalog
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(gw gateway.Gateway, cat *catalog.Catalog) *Server {
	s := &Server{
		gateway: gw,
		catalog: cat,
	}

	s.mcp = server.NewMCPServer(
		"enfoco",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchArchiveTool, s.handleSearchArchive)
	s.mcp.AddTool(searchVaultTool, s.handleSearchVault)
	s.mcp.AddTool(chatTool, s.handleChat)
	s.mcp.AddTool(analyzeVisualTool, s.handleAnalyzeVisual)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
