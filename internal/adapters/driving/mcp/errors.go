package mcp

import "errors"

// Port validation errors.
var (
	ErrMissingAnswerService = errors.New("mcp: answer service is required")
	ErrMissingSearchService = errors.New("mcp: search service is required")
)
