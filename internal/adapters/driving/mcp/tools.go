package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Outcome   string           `json:"outcome"`
	Answer    string           `json:"answer,omitempty"`
	Caveat    string           `json:"caveat,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Missing   string           `json:"missing,omitempty"`
	Citations []CitationOutput `json:"citations,omitempty"`
}

// CitationOutput is one (source, page) citation.
type CitationOutput struct {
	Source string `json:"source"`
	Page   int    `json:"page"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query    string  `json:"query" jsonschema:"the text to search the indexed chunks for"`
	Limit    int     `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 6)"`
	MinScore float64 `json:"min_score,omitempty" jsonschema:"minimum cosine similarity (default 0)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieved chunk.
type SearchResultOutput struct {
	Source string  `json:"source"`
	Page   int     `json:"page"`
	Score  float64 `json:"score"`
	Text   string  `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question strictly from the indexed documents, with citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Retrieve the most similar indexed chunks for a query",
	}, s.handleSearch)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	decision, err := s.ports.Answer.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Outcome: string(decision.Outcome),
		Answer:  decision.Answer,
		Caveat:  decision.Caveat,
		Reason:  decision.Reason,
		Missing: decision.Missing,
	}
	for _, c := range decision.Citations {
		output.Citations = append(output.Citations, CitationOutput{Source: c.Source, Page: c.Page})
	}
	return nil, output, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 6
	}

	results, err := s.ports.Search.Search(ctx, input.Query, limit, input.MinScore)
	if err != nil {
		// An empty corpus is an empty result to MCP clients, not an error.
		if errors.Is(err, domain.ErrEmptyIndex) {
			return nil, SearchOutput{}, nil
		}
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			Source: results[i].Chunk.Source,
			Page:   results[i].Chunk.Page,
			Score:  results[i].Score,
			Text:   results[i].Chunk.Text,
		}
	}
	return nil, output, nil
}
