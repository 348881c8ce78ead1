package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grounded-labs/askdocs-cli/internal/chunker"
	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driven"
)

// mockExtractor implements driven.Extractor over raw file content;
// failPaths force an extraction failure for matching files.
type mockExtractor struct {
	extensions []string
	failPaths  map[string]bool
}

func (m *mockExtractor) Extensions() []string { return m.extensions }

func (m *mockExtractor) Extract(_ context.Context, path string) (domain.Document, error) {
	if m.failPaths[filepath.Base(path)] {
		return domain.Document{}, &domain.ExtractionError{Path: path, Err: errors.New("unreadable")}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, &domain.ExtractionError{Path: path, Err: err}
	}
	return domain.Document{
		Source: filepath.Base(path),
		Pages:  []domain.Page{{Number: 1, Text: string(raw)}},
	}, nil
}

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	return dir
}

func newTestIngest(t *testing.T, index driven.VectorIndex, catalog driven.IngestCatalog, embedder driven.EmbeddingService, opts ...IngestOption) *IngestService {
	t.Helper()
	ch, err := chunker.New(50, 10)
	require.NoError(t, err)
	extractor := &mockExtractor{extensions: []string{".txt"}}
	return NewIngestService([]driven.Extractor{extractor}, ch, embedder, index, catalog, opts...)
}

func TestIngestService_Ingest_IndexesSupportedFiles(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"a.txt":      "The dog sat on the mat.",
		"b.txt":      "The cat slept all day.",
		"ignore.png": "binary junk",
	})
	index := &mockVectorIndex{}
	catalog := &mockCatalog{}
	svc := newTestIngest(t, index, catalog, &mockEmbedder{vector: []float32{1, 0}})

	report, err := svc.Ingest(context.Background(), dir)
	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.FilesIndexed)
	assert.Equal(t, 2, report.ChunksAppended)
	assert.Empty(t, report.Failures)
	assert.Len(t, index.appended, 2)
	assert.Len(t, catalog.entries, 2)
}

func TestIngestService_Ingest_SkipsAlreadyIndexed(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"a.txt": "The dog sat on the mat."})
	index := &mockVectorIndex{}
	catalog := &mockCatalog{}
	svc := newTestIngest(t, index, catalog, &mockEmbedder{vector: []float32{1, 0}})

	first, err := svc.Ingest(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 1, first.FilesIndexed)

	// Same content again: the catalog gate skips it, nothing new lands
	// in the index.
	second, err := svc.Ingest(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, second.FilesIndexed)
	assert.Equal(t, 1, second.FilesSkipped)
	assert.Len(t, index.appended, 1)
}

func TestIngestService_Ingest_ChangedContentReindexed(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"a.txt": "version one"})
	index := &mockVectorIndex{}
	catalog := &mockCatalog{}
	svc := newTestIngest(t, index, catalog, &mockEmbedder{vector: []float32{1, 0}})

	_, err := svc.Ingest(context.Background(), dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("version two"), 0600))
	report, err := svc.Ingest(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesIndexed)
	assert.Len(t, catalog.entries, 2)
}

func TestIngestService_Ingest_ExtractionFailureDoesNotAbort(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"bad.txt":  "never extracted",
		"good.txt": "The dog sat on the mat.",
	})
	index := &mockVectorIndex{}
	svc := NewIngestService(
		[]driven.Extractor{&mockExtractor{
			extensions: []string{".txt"},
			failPaths:  map[string]bool{"bad.txt": true},
		}},
		mustChunker(t), &mockEmbedder{vector: []float32{1, 0}}, index, &mockCatalog{},
	)

	report, err := svc.Ingest(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesIndexed)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0].Path, "bad.txt")

	var extractionErr *domain.ExtractionError
	assert.ErrorAs(t, report.Failures[0].Err, &extractionErr)
}

func TestIngestService_Ingest_EmptyFileSkipped(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"empty.txt": "   \n  "})
	index := &mockVectorIndex{}
	svc := newTestIngest(t, index, &mockCatalog{}, &mockEmbedder{vector: []float32{1, 0}})

	report, err := svc.Ingest(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, report.FilesIndexed)
	assert.Equal(t, 1, report.FilesSkipped)
	assert.Empty(t, index.appended)
}

func TestIngestService_Ingest_RateLimitedBatchRetried(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"a.txt": "The dog sat on the mat."})
	index := &mockVectorIndex{}
	embedder := &mockEmbedder{
		vector:    []float32{1, 0},
		batchErrs: []error{domain.ErrRateLimited},
	}
	svc := newTestIngest(t, index, &mockCatalog{}, embedder, WithRateLimitBackoff(0))

	report, err := svc.Ingest(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesIndexed)
	assert.Equal(t, 2, embedder.batchCalls)
}

func TestIngestService_Ingest_EmbeddingFailureSkipsDocument(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"a.txt": "The dog sat on the mat."})
	index := &mockVectorIndex{}
	embedder := &mockEmbedder{
		vector:    []float32{1, 0},
		batchErrs: []error{assert.AnError},
	}
	svc := newTestIngest(t, index, &mockCatalog{}, embedder)

	report, err := svc.Ingest(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, report.FilesIndexed)
	require.Len(t, report.Failures, 1)

	// Nothing partial reaches the index on a failed document.
	assert.Empty(t, index.appended)
}

func TestIngestService_Ingest_IndexFailureAbortsRun(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"a.txt": "The dog sat on the mat."})
	index := &mockVectorIndex{appendErr: domain.ErrDimensionMismatch}
	svc := newTestIngest(t, index, &mockCatalog{}, &mockEmbedder{vector: []float32{1, 0}})

	_, err := svc.Ingest(context.Background(), dir)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestIngestService_Ingest_MissingDirectory(t *testing.T) {
	svc := newTestIngest(t, &mockVectorIndex{}, &mockCatalog{}, &mockEmbedder{vector: []float32{1}})

	_, err := svc.Ingest(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestIngestService_Ingest_BatchesLargeDocuments(t *testing.T) {
	// 50-byte window, 10 overlap: 200 bytes of text yields 5 chunks,
	// which a batch size of 2 splits into 3 provider calls.
	text := ""
	for len(text) < 200 {
		text += "the quick brown fox jumps over the lazy dog "
	}
	dir := writeCorpus(t, map[string]string{"long.txt": text[:200]})
	embedder := &mockEmbedder{vector: []float32{1, 0}}
	svc := newTestIngest(t, &mockVectorIndex{}, &mockCatalog{}, embedder, WithEmbedBatchSize(2))

	report, err := svc.Ingest(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 5, report.ChunksAppended)
	assert.Equal(t, 3, embedder.batchCalls)
}

func mustChunker(t *testing.T) *chunker.Chunker {
	t.Helper()
	ch, err := chunker.New(50, 10)
	require.NoError(t, err)
	return ch
}
