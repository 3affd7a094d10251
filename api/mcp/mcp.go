// Package mcp provides an MCP (Model Context Protocol) server exposing
// transcript retrieval as tools.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/api/retrieve"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/utils"
)

type Config struct {
	// Retriever answers search and summary_search tool calls.
	Retriever *retrieve.Retriever

	// DefaultTopK applies when a tool call omits top_k.
	DefaultTopK int

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the retrieval tools.
func NewServer(c Config) (*Server, error) {
	if c.DefaultTopK <= 0 {
		c.DefaultTopK = 5
	}

	s := &Server{
		config: c,
	}

	// Create the MCP server
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "minutes",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		// return the empty MCP server with no tools configured
		// if the noop flag is set (i.e., MCP capabilities are disabled)
		s.mcpServer = mcpServer
		return s, nil
	}

	if c.Retriever == nil {
		return nil, errors.New("retriever is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	// Add tools
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        searchToolName,
		Description: searchDescription,
	}, s.handleSearch)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        summarySearchToolName,
		Description: summarySearchDescription,
	}, s.handleSummarySearch)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
