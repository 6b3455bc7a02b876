package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/kinlink-docs/internal/content"
	"github.com/ziadkadry99/kinlink-docs/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Docs is the documentation the tools read from. The live site satisfies
// it, so tool results follow content reloads.
type Docs interface {
	Content() *content.Site
	Index() *search.Index
}

// Server wraps an MCP server that exposes documentation search tools.
type Server struct {
	docs          Docs
	defaultLocale string
	mcp           *server.MCPServer
}

// NewServer creates a new MCP server. Tools called without a locale use
// defaultLocale.
func NewServer(docs Docs, defaultLocale string) *Server {
	s := &Server{
		docs:          docs,
		defaultLocale: defaultLocale,
	}

	s.mcp = server.NewMCPServer(
		"kinlink-docs",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocsTool, s.handleSearchDocs)
	s.mcp.AddTool(getPageTool, s.handleGetPage)
	s.mcp.AddTool(listSamplesTool, s.handleListSamples)
	s.mcp.AddTool(getSampleTool, s.handleGetSample)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
