// Package mcp exposes the almanac over the Model Context Protocol so AI
// agents can browse the published book.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/fetch"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Content is the slice of the fetch client the tools need.
type Content interface {
	Page(ctx context.Context, page string) ([]byte, error)
	Menu(ctx context.Context) (*fetch.Menu, error)
}

// Server wraps an MCP server that exposes almanac reading tools.
type Server struct {
	content Content
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server backed by the given content client.
func NewServer(content Content) *Server {
	s := &Server{content: content}

	s.mcp = server.NewMCPServer(
		"almanac",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listPagesTool, s.handleListPages)
	s.mcp.AddTool(readPageTool, s.handleReadPage)
	s.mcp.AddTool(pageOutlineTool, s.handlePageOutline)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
