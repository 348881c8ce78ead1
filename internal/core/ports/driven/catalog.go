package driven

import (
	"context"
	"time"
)

// CatalogEntry records one fully ingested document version.
type CatalogEntry struct {
	// Source is the document identifier (filename).
	Source string

	// ContentHash is the sha256 hex digest of the raw file bytes.
	ContentHash string

	// RunID identifies the ingestion run that indexed this version.
	RunID string

	// Chunks is the number of chunks the document contributed.
	Chunks int

	// IngestedAt is when the document finished indexing.
	IngestedAt time.Time
}

// IngestCatalog is the dedup ledger for the append-only index: a document
// whose (source, content hash) pair is already recorded is skipped on
// re-ingestion, so re-running ingest never duplicates chunks.
type IngestCatalog interface {
	// Seen reports whether this exact document version is already indexed.
	Seen(ctx context.Context, source, contentHash string) (bool, error)

	// Record stores the entry after the document is fully appended.
	Record(ctx context.Context, entry CatalogEntry) error

	// Entries lists all recorded documents, newest first.
	Entries(ctx context.Context) ([]CatalogEntry, error)

	// Close releases the underlying storage.
	Close() error
}
