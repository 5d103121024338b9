package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query    string `json:"query,omitempty" jsonschema:"text matched against document ID, client name and filename"`
	Country  string `json:"country,omitempty" jsonschema:"restrict results to one country folder"`
	Product  string `json:"product,omitempty" jsonschema:"restrict results to one product folder"`
	HasField string `json:"has_field,omitempty" jsonschema:"keep only documents containing the named extracted field"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID   string `json:"document_id"`
	Client       string `json:"client"`
	Country      string `json:"country"`
	Product      string `json:"product"`
	Filename     string `json:"filename"`
	Fingerprint  string `json:"pattern_signature"`
	ClusterID    *int64 `json:"cluster_id,omitempty"`
	SectionCount int    `json:"section_count"`
	Status       string `json:"status"`
}

// GetDocumentInput is the input schema for the get_document tool.
type GetDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"the ID of the stored document to retrieve"`
}

// GetDocumentOutput is the output schema for the get_document tool.
type GetDocumentOutput struct {
	Document *domain.DocumentRecord `json:"document"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the extracted document index by text and structural filters",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Retrieve a stored document's full structured extraction result",
	}, s.handleGetDocument)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	filter := domain.SearchFilter{
		Query:    input.Query,
		Country:  input.Country,
		Product:  input.Product,
		HasField: input.HasField,
		Limit:    limit,
	}
	results, err := s.ports.Search.Search(ctx, filter)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID:   results[i].ID,
			Client:       results[i].Client,
			Country:      results[i].Country,
			Product:      results[i].Product,
			Filename:     results[i].Filename,
			Fingerprint:  results[i].Fingerprint,
			ClusterID:    results[i].ClusterID,
			SectionCount: results[i].SectionCount,
			Status:       string(results[i].Status),
		}
	}

	return nil, output, nil
}

// handleGetDocument handles the get_document tool invocation.
func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDocumentInput,
) (*mcp.CallToolResult, GetDocumentOutput, error) {
	if s.ports.Document == nil {
		return nil, GetDocumentOutput{}, fmt.Errorf("document service is not configured")
	}

	record, err := s.ports.Document.Get(ctx, input.DocumentID)
	if err != nil {
		return nil, GetDocumentOutput{}, err
	}

	return nil, GetDocumentOutput{Document: record}, nil
}
