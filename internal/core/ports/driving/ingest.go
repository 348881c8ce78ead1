package driving

import "context"

// FileFailure reports one document that could not be ingested.
type FileFailure struct {
	Path string
	Err  error
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// RunID identifies the run in the catalog.
	RunID string

	// FilesIndexed is the number of documents chunked and appended.
	FilesIndexed int

	// FilesSkipped is the number of documents skipped as already indexed.
	FilesSkipped int

	// ChunksAppended is the total number of chunks added to the index.
	ChunksAppended int

	// Failures lists per-document errors; a failure never aborts the run.
	Failures []FileFailure
}

// IngestService scans a directory and indexes every supported document:
// extract pages, chunk, embed, append to the vector index, persist.
type IngestService interface {
	// Ingest processes dir and returns a report. Per-document extraction
	// or embedding failures are recorded in the report; only index-level
	// failures (dimension mismatch, corrupt storage) abort the run.
	Ingest(ctx context.Context, dir string) (IngestReport, error)
}
