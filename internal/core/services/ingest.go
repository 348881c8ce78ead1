package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grounded-labs/askdocs-cli/internal/chunker"
	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/grounded-labs/askdocs-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultEmbedBatchSize is how many chunks are embedded per provider call.
const DefaultEmbedBatchSize = 16

// DefaultRateLimitBackoff is the wait before retrying a rate-limited batch.
const DefaultRateLimitBackoff = 30 * time.Second

// IngestService runs the ingestion pipeline: scan a directory, extract
// page-tagged text, chunk, embed, append to the vector index. A document
// is appended in one atomic batch and recorded in the catalog only once
// fully indexed, so a crash or provider failure never leaves a document
// half-present with a catalog entry.
type IngestService struct {
	extractors map[string]driven.Extractor
	chunker    *chunker.Chunker
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
	catalog    driven.IngestCatalog
	batchSize  int
	backoff    time.Duration
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithEmbedBatchSize sets the embedding batch size.
func WithEmbedBatchSize(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithRateLimitBackoff sets the wait before retrying a rate-limited batch.
func WithRateLimitBackoff(d time.Duration) IngestOption {
	return func(s *IngestService) {
		if d >= 0 {
			s.backoff = d
		}
	}
}

// NewIngestService creates the ingestion pipeline. Extractors are keyed
// by the extensions they report.
func NewIngestService(
	extractors []driven.Extractor,
	ch *chunker.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	catalog driven.IngestCatalog,
	opts ...IngestOption,
) *IngestService {
	byExt := make(map[string]driven.Extractor)
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			byExt[ext] = e
		}
	}

	s := &IngestService{
		extractors: byExt,
		chunker:    ch,
		embedder:   embedder,
		index:      index,
		catalog:    catalog,
		batchSize:  DefaultEmbedBatchSize,
		backoff:    DefaultRateLimitBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest scans dir and indexes every supported document. Per-document
// failures (extraction, embedding) are reported and skipped; only
// index-level failures abort the run.
func (s *IngestService) Ingest(ctx context.Context, dir string) (driving.IngestReport, error) {
	report := driving.IngestReport{RunID: uuid.New().String()}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return report, fmt.Errorf("scanning %s: %w", dir, err)
	}

	logger.Section("Ingestion")
	logger.Debug("Run %s over %s (%d entries)", report.RunID, dir, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		ext := strings.ToLower(filepath.Ext(path))
		extractor, ok := s.extractors[ext]
		if !ok {
			logger.Debug("Skipping %s: %s", entry.Name(), domain.ErrUnsupportedType)
			continue
		}

		if err := s.ingestFile(ctx, path, extractor, &report); err != nil {
			return report, err
		}
	}

	logger.Info("Ingested %d files (%d chunks), skipped %d, failed %d",
		report.FilesIndexed, report.ChunksAppended, report.FilesSkipped, len(report.Failures))
	return report, nil
}

// ingestFile processes one document. Recoverable errors land in the
// report; a non-nil return aborts the whole run.
func (s *IngestService) ingestFile(ctx context.Context, path string, extractor driven.Extractor, report *driving.IngestReport) error {
	source := filepath.Base(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		report.Failures = append(report.Failures, driving.FileFailure{
			Path: path,
			Err:  &domain.ExtractionError{Path: path, Err: err},
		})
		return nil
	}
	sum := sha256.Sum256(raw)
	contentHash := hex.EncodeToString(sum[:])

	// The index is append-only, so re-ingesting an already indexed
	// document version would duplicate its chunks. The catalog is the
	// dedup gate.
	seen, err := s.catalog.Seen(ctx, source, contentHash)
	if err != nil {
		return fmt.Errorf("catalog lookup for %s: %w", source, err)
	}
	if seen {
		logger.Debug("Skipping %s: already indexed", source)
		report.FilesSkipped++
		return nil
	}

	doc, err := extractor.Extract(ctx, path)
	if err != nil {
		logger.Warn("Extraction failed for %s: %v", source, err)
		report.Failures = append(report.Failures, driving.FileFailure{Path: path, Err: err})
		return nil
	}

	chunks := s.chunker.Split(doc)
	if len(chunks) == 0 {
		logger.Debug("No text in %s, recording as empty", source)
		report.FilesSkipped++
		return nil
	}
	logger.Debug("Chunked %s: %d pages, %d chunks", source, len(doc.Pages), len(chunks))

	records, err := s.embedChunks(ctx, chunks)
	if err != nil {
		logger.Warn("Embedding failed for %s: %v", source, err)
		report.Failures = append(report.Failures, driving.FileFailure{Path: path, Err: err})
		return nil
	}

	// One append per document: either the whole document lands in the
	// index or none of it does.
	if err := s.index.Append(ctx, records); err != nil {
		return fmt.Errorf("appending %s: %w", source, err)
	}

	if err := s.catalog.Record(ctx, driven.CatalogEntry{
		Source:      source,
		ContentHash: contentHash,
		RunID:       report.RunID,
		Chunks:      len(records),
		IngestedAt:  time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("recording %s in catalog: %w", source, err)
	}

	report.FilesIndexed++
	report.ChunksAppended += len(records)
	return nil
}

// embedChunks embeds all chunks of one document in batches. A
// rate-limited batch is retried once after a backoff; any other failure
// aborts the document so nothing partial reaches the index.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk) ([]driven.EmbeddingRecord, error) {
	records := make([]driven.EmbeddingRecord, 0, len(chunks))

	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if errors.Is(err, domain.ErrRateLimited) {
			logger.Warn("Rate limited, backing off %s", s.backoff)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.backoff):
			}
			vectors, err = s.embedder.EmbedBatch(ctx, texts)
		}
		if err != nil {
			return nil, fmt.Errorf("embedding batch at chunk %d: %w", start, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embedding batch at chunk %d: got %d vectors for %d texts", start, len(vectors), len(batch))
		}

		for i, vec := range vectors {
			records = append(records, driven.EmbeddingRecord{Chunk: batch[i], Vector: vec})
		}
	}

	return records, nil
}
