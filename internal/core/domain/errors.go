package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidChunking indicates bad chunker parameters (overlap must
	// be non-negative and strictly smaller than the window size). It is
	// fatal and reported before any I/O.
	ErrInvalidChunking = errors.New("invalid chunking parameters")

	// ErrDimensionMismatch indicates an appended vector's length differs
	// from the index's established dimensionality. Fatal for the batch.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCorruptIndex indicates the persisted vector matrix and metadata
	// stream disagree on row count. Fatal for the index instance; never
	// auto-repaired.
	ErrCorruptIndex = errors.New("corrupt index: matrix and metadata rows disagree")

	// ErrIncompatibleDimension indicates a reload was attempted against
	// an in-memory index already holding a different dimensionality.
	ErrIncompatibleDimension = errors.New("incompatible index dimension")

	// ErrEmptyIndex indicates a search against an index with zero
	// records. Recoverable: the agent translates it into a clarification
	// response rather than a crash.
	ErrEmptyIndex = errors.New("vector index is empty")

	// ErrInvalidQuery indicates an empty or whitespace-only query,
	// rejected at the boundary with no retrieval attempted.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrRateLimited indicates a provider rate limit was exceeded.
	// Recoverable with bounded retry and backoff.
	ErrRateLimited = errors.New("rate limited")

	// ErrProviderUnavailable indicates a provider call failed after the
	// bounded retry was exhausted. Surfaced to the caller, never papered
	// over with a fabricated answer.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrUnsupportedType indicates a file type no extractor handles.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// ExtractionError reports an unreadable or non-extractable source file.
// Extraction failures are per-document: the file is skipped and reported,
// the rest of the ingestion batch proceeds.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
