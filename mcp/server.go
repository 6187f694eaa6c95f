// Package mcp exposes the KBSE facade as an MCP tool surface, using the
// official modelcontextprotocol/go-sdk rather than the hand-rolled
// JSON-RPC loop an earlier revision of this package used. Grounded on
// Aman-CERP/amanmcp's internal/mcp/server.go for the server-construction
// and tool-registration shape.
package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/piyushimraw/meeseeks-cli/kbse/kbse"
	"github.com/piyushimraw/meeseeks-cli/kbse/query"
	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

// serverVersion is the implementation version reported in the MCP
// initialize handshake.
const serverVersion = "0.1.0"

// Server bridges the MCP stdio transport to a kbse.Service.
type Server struct {
	mcp     *mcp.Server
	service *kbse.Service
	logger  *slog.Logger
}

// NewServer constructs the MCP server and registers every tool spec.md
// §4.8's facade exposes.
func NewServer(service *kbse.Service, serverName string) *Server {
	s := &Server{
		service: service,
		logger:  slog.Default(),
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: serverVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the server on stdio and blocks until ctx is cancelled or the
// transport closes.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio")
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && err != context.Canceled {
		s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
	}
	return err
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_kb",
		Description: "Build or rebuild the search index for a knowledge base. Chunks every crawled page, embeds it, and persists the result.",
	}, s.handleIndexKB)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_kb",
		Description: "Run a semantic search over an indexed knowledge base and return the top-K matching chunks by cosine similarity.",
	}, s.handleSearchKB)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "is_indexed",
		Description: "Check whether a knowledge base currently has a usable on-disk index.",
	}, s.handleIsIndexed)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_stats",
		Description: "Return cheap, manifest-only statistics about a knowledge base's index.",
	}, s.handleIndexStats)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "clear_index",
		Description: "Remove a knowledge base's on-disk index, idempotently.",
	}, s.handleClearIndex)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "condense_context",
		Description: "Shrink a system/user prompt pair to fit a model's available token budget by dropping trailing KB result blocks, then trailing diff file sections.",
	}, s.handleCondenseContext)
}

// IndexKBInput is the input schema for index_kb.
type IndexKBInput struct {
	KBID string `json:"kbId" jsonschema:"the knowledge base identifier to index"`
}

func (s *Server) handleIndexKB(ctx context.Context, req *mcp.CallToolRequest, in IndexKBInput) (*mcp.CallToolResult, types.IndexResult, error) {
	result := s.service.IndexKB(ctx, in.KBID, nil)
	return nil, result, nil
}

// SearchKBInput is the input schema for search_kb.
type SearchKBInput struct {
	KBID  string `json:"kbId" jsonschema:"the knowledge base identifier to search"`
	Query string `json:"query" jsonschema:"the search query text"`
	TopK  int    `json:"topK,omitempty" jsonschema:"maximum number of results, default 5"`
}

// SearchKBOutput is the output schema for search_kb.
type SearchKBOutput struct {
	Results  []types.SearchResult `json:"results"`
	Markdown string               `json:"markdown" jsonschema:"the results formatted as a Markdown blob for prompt assembly"`
}

func (s *Server) handleSearchKB(ctx context.Context, req *mcp.CallToolRequest, in SearchKBInput) (*mcp.CallToolResult, SearchKBOutput, error) {
	results := s.service.SearchKB(ctx, in.KBID, in.Query, in.TopK)
	return nil, SearchKBOutput{Results: results, Markdown: query.FormatMarkdown(results)}, nil
}

// IsIndexedInput is the input schema for is_indexed.
type IsIndexedInput struct {
	KBID string `json:"kbId" jsonschema:"the knowledge base identifier"`
}

// IsIndexedOutput is the output schema for is_indexed.
type IsIndexedOutput struct {
	Indexed bool `json:"indexed"`
}

func (s *Server) handleIsIndexed(ctx context.Context, req *mcp.CallToolRequest, in IsIndexedInput) (*mcp.CallToolResult, IsIndexedOutput, error) {
	return nil, IsIndexedOutput{Indexed: s.service.IsIndexed(in.KBID)}, nil
}

// IndexStatsInput is the input schema for index_stats.
type IndexStatsInput struct {
	KBID string `json:"kbId" jsonschema:"the knowledge base identifier"`
}

func (s *Server) handleIndexStats(ctx context.Context, req *mcp.CallToolRequest, in IndexStatsInput) (*mcp.CallToolResult, types.IndexStats, error) {
	stats := s.service.IndexStats(in.KBID)
	return nil, *stats, nil
}

// ClearIndexInput is the input schema for clear_index.
type ClearIndexInput struct {
	KBID string `json:"kbId" jsonschema:"the knowledge base identifier"`
}

// ClearIndexOutput is the output schema for clear_index.
type ClearIndexOutput struct {
	Cleared bool `json:"cleared"`
}

func (s *Server) handleClearIndex(ctx context.Context, req *mcp.CallToolRequest, in ClearIndexInput) (*mcp.CallToolResult, ClearIndexOutput, error) {
	if err := s.service.ClearIndex(in.KBID); err != nil {
		return nil, ClearIndexOutput{Cleared: false}, err
	}
	return nil, ClearIndexOutput{Cleared: true}, nil
}

// CondenseContextInput is the input schema for condense_context.
type CondenseContextInput struct {
	ModelID           string `json:"modelId" jsonschema:"the target model identifier"`
	SystemPrompt      string `json:"systemPrompt"`
	UserPrompt        string `json:"userPrompt"`
	GitDiff           string `json:"gitDiff,omitempty"`
	KBContent         string `json:"kbContent,omitempty"`
	SearchResultCount int    `json:"searchResultCount,omitempty"`
}

func (s *Server) handleCondenseContext(ctx context.Context, req *mcp.CallToolRequest, in CondenseContextInput) (*mcp.CallToolResult, types.CondenseResult, error) {
	result := kbse.CondenseContext(types.CondenseRequest{
		ModelID:           in.ModelID,
		SystemPrompt:      in.SystemPrompt,
		UserPrompt:        in.UserPrompt,
		GitDiff:           in.GitDiff,
		KBContent:         in.KBContent,
		SearchResultCount: in.SearchResultCount,
	})
	return nil, result, nil
}
