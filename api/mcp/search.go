package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/api/retrieve"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
)

var (
	searchToolName    = "search"
	searchDescription = "Search over Japanese government meeting transcripts using semantic search. Returns the most relevant transcript chunks with their source meeting metadata."

	summarySearchToolName    = "summary_search"
	summarySearchDescription = "Search over per-meeting summaries using semantic search. Returns one result per meeting, useful for finding which meetings discussed a topic."
)

// SearchInput represents the input arguments for the retrieval tools.
type SearchInput struct {
	Query    string `json:"query" jsonschema:"the search query text to find relevant transcript chunks"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of results to return; omitted or non-positive values use the server default (5)"`
	Ministry string `json:"ministry,omitempty" jsonschema:"restrict results to meetings held by one ministry"`
}

// handleSearch processes a search tool call over raw transcript chunks.
func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, retrieve.Output, error) {
	return s.handleRetrieval(ctx, input, s.config.Retriever.Search)
}

// handleSummarySearch processes a summary_search tool call.
func (s *Server) handleSummarySearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, retrieve.Output, error) {
	return s.handleRetrieval(ctx, input, s.config.Retriever.SummarySearch)
}

type retrievalFunc func(ctx context.Context, query string, topK int, filter chunks.Filter) (*retrieve.Output, error)

func (s *Server) handleRetrieval(ctx context.Context, input SearchInput, fn retrievalFunc) (*mcp.CallToolResult, retrieve.Output, error) {
	logger := s.config.Logger

	// Default topK if not specified
	topK := input.TopK
	if topK <= 0 {
		topK = s.config.DefaultTopK
	}

	logger.Debug("MCP retrieval request",
		"top_k", topK,
		"ministry", input.Ministry,
		"query_chars", len([]rune(input.Query)),
	)

	output, err := fn(ctx, input.Query, topK, chunks.Filter{Ministry: input.Ministry})
	if err != nil {
		logger.Error("retrieval failed", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Retrieval failed: %v", err)},
			},
		}, retrieve.Output{}, nil
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal retrieval output", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, retrieve.Output{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, *output, nil
}
