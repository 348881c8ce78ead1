// Package driving provides interfaces for application entry points (primary/inbound ports).
package driving

import (
	"context"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
)

// AnswerService answers natural-language questions strictly from the
// indexed corpus. One call is one pass: retrieve, judge, decide. There
// are no retries within a single query.
type AnswerService interface {
	// Ask runs the grounding protocol for one query and returns the
	// terminal decision. Returns domain.ErrInvalidQuery for empty input
	// and domain.ErrProviderUnavailable when the generation provider
	// fails past the bounded retry.
	Ask(ctx context.Context, query string) (domain.Decision, error)
}

// SearchService exposes raw retrieval without the judgment step, for
// surfaces (MCP, debugging) that want ranked evidence rather than a
// composed answer.
type SearchService interface {
	// Search returns up to k chunks scoring at least minScore against
	// the query, ranked by similarity.
	Search(ctx context.Context, query string, k int, minScore float64) ([]domain.ScoredChunk, error)
}
