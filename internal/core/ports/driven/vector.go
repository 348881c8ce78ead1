package driven

import (
	"context"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
)

// EmbeddingRecord pairs a chunk with its embedding vector. All records in
// one index share the same dimensionality, fixed by the first append.
type EmbeddingRecord struct {
	Chunk  domain.Chunk
	Vector []float32
}

// VectorIndex is a persistent, append-only store of embedding vectors
// with row-aligned chunk metadata and exact cosine top-K search.
//
// Concurrency: many concurrent searchers, at most one appender, and no
// searcher observes a partially-appended state.
type VectorIndex interface {
	// Append validates dimensionality, then extends the vector matrix
	// and metadata stream atomically: either every record is appended
	// and persisted or none is. Returns domain.ErrDimensionMismatch if
	// any vector's length differs from the index's established
	// dimensionality.
	Append(ctx context.Context, records []EmbeddingRecord) error

	// Search computes cosine similarity between query and every stored
	// vector and returns the top k, non-increasing by score, ties broken
	// by lower insertion index. Returns domain.ErrEmptyIndex when the
	// index holds zero records and k > 0.
	Search(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error)

	// Len returns the number of stored records.
	Len() int

	// Dimensions returns the established dimensionality, 0 if the index
	// is empty and has never seen a vector.
	Dimensions() int

	// Close flushes and releases the underlying storage.
	Close() error
}
