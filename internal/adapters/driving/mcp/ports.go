package mcp

import (
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point.
type Ports struct {
	// Answer runs the grounding protocol for one question.
	Answer driving.AnswerService

	// Search exposes raw retrieval without the judgment step.
	Search driving.SearchService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
