// Package mcp provides an MCP (Model Context Protocol) server adapter
// for the extracted document index. It lets AI assistants like Claude
// search stored documents, read their structured payloads, and inspect
// pattern clusters.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
