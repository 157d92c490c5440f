// Package mcp provides an MCP (Model Context Protocol) server adapter for qabench.
// It lets AI assistants ask questions about a book against a freshly
// assembled corpus, the same way a benchmark run does.
package mcp

import "errors"

// ErrMissingQAService is returned when the question answering service is not provided.
var ErrMissingQAService = errors.New("mcp: qa service is required")
