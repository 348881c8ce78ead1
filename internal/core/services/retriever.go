package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/grounded-labs/askdocs-cli/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.SearchService = (*Retriever)(nil)

// overfetchFactor is how many extra results are requested from the index
// to compensate for page-level deduplication and the score floor.
const overfetchFactor = 3

// Retriever wraps the vector index with query-time embedding and result
// shaping: score thresholding and (source, page) deduplication.
type Retriever struct {
	index     driven.VectorIndex
	embedder  driven.EmbeddingService
	aggregate bool
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithPageAggregation keeps multiple chunks from the same (source, page)
// in the ranked result instead of deduplicating them.
func WithPageAggregation() RetrieverOption {
	return func(r *Retriever) { r.aggregate = true }
}

// NewRetriever creates a retriever over the given index and embedder.
func NewRetriever(index driven.VectorIndex, embedder driven.EmbeddingService, opts ...RetrieverOption) *Retriever {
	r := &Retriever{index: index, embedder: embedder}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Search embeds the query, runs exact top-K search and shapes the result.
// An empty index propagates as domain.ErrEmptyIndex, a distinguished
// "no corpus" condition the agent turns into a clarification.
func (r *Retriever) Search(ctx context.Context, query string, k int, minScore float64) ([]domain.ScoredChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidQuery
	}
	if k <= 0 {
		return nil, nil
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	// Over-fetch only when deduplication may drop results.
	fetch := k
	if !r.aggregate {
		fetch = k * overfetchFactor
	}
	logger.Debug("Retrieving top %d (fetch %d, floor %.2f)", k, fetch, minScore)

	hits, err := r.index.Search(ctx, vec, fetch)
	if err != nil {
		return nil, err
	}

	seen := make(map[domain.Citation]struct{}, len(hits))
	results := make([]domain.ScoredChunk, 0, k)
	for _, hit := range hits {
		if hit.Score < minScore {
			// Scores are non-increasing, nothing below the floor follows.
			break
		}
		if !r.aggregate {
			key := domain.Citation{Source: hit.Chunk.Source, Page: hit.Chunk.Page}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		results = append(results, hit)
		if len(results) == k {
			break
		}
	}

	logger.Debug("Retrieved %d chunks above floor", len(results))
	return results, nil
}
