package services

import (
	"context"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing. When
// vecFor is set it maps text to a vector; otherwise every text embeds to
// the fixed vector.
type mockEmbedder struct {
	vector    []float32
	vecFor    func(text string) []float32
	embedErr  error
	batchErrs []error // consumed one per EmbedBatch call
	dims      int

	embedCalls int
	batchCalls int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if len(m.batchErrs) > 0 {
		err := m.batchErrs[0]
		m.batchErrs = m.batchErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = m.vectorFor(text)
	}
	return vectors, nil
}

func (m *mockEmbedder) vectorFor(text string) []float32 {
	if m.vecFor != nil {
		return m.vecFor(text)
	}
	return m.vector
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return len(m.vector)
}

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

// mockVectorIndex implements driven.VectorIndex with scripted hits. It
// records appends and the last requested k.
type mockVectorIndex struct {
	hits      []domain.ScoredChunk
	searchErr error
	appendErr error

	appended []driven.EmbeddingRecord
	lastK    int
}

func (m *mockVectorIndex) Append(_ context.Context, records []driven.EmbeddingRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, records...)
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]domain.ScoredChunk, error) {
	m.lastK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if len(m.hits) == 0 && k > 0 {
		return nil, domain.ErrEmptyIndex
	}
	if k > len(m.hits) {
		k = len(m.hits)
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Len() int { return len(m.hits) + len(m.appended) }

func (m *mockVectorIndex) Dimensions() int { return 0 }

func (m *mockVectorIndex) Close() error { return nil }

// mockSearcher implements driving.SearchService for agent tests.
type mockSearcher struct {
	results   []domain.ScoredChunk
	searchErr error

	lastQuery    string
	lastK        int
	lastMinScore float64
}

func (m *mockSearcher) Search(_ context.Context, query string, k int, minScore float64) ([]domain.ScoredChunk, error) {
	m.lastQuery = query
	m.lastK = k
	m.lastMinScore = minScore
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results, nil
}

// mockLLM implements driven.LLMService with a scripted judgment queue.
// Each Judge call consumes one entry; an entry with a non-nil error
// fails that call.
type mockLLM struct {
	script []judgeResult

	judgeCalls int
}

type judgeResult struct {
	judgment domain.Judgment
	err      error
}

func (m *mockLLM) Judge(_ context.Context, _ string, _ []domain.Chunk) (domain.Judgment, error) {
	m.judgeCalls++
	if len(m.script) == 0 {
		return domain.Judgment{Verdict: domain.VerdictInsufficient}, nil
	}
	next := m.script[0]
	m.script = m.script[1:]
	return next.judgment, next.err
}

func (m *mockLLM) Generate(_ context.Context, _ string, _ []domain.Chunk, _ string) (string, error) {
	return "", nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockCatalog implements driven.IngestCatalog in memory.
type mockCatalog struct {
	entries []driven.CatalogEntry
	seenErr error
}

func (m *mockCatalog) Seen(_ context.Context, source, contentHash string) (bool, error) {
	if m.seenErr != nil {
		return false, m.seenErr
	}
	for _, e := range m.entries {
		if e.Source == source && e.ContentHash == contentHash {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCatalog) Record(_ context.Context, entry driven.CatalogEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockCatalog) Entries(_ context.Context) ([]driven.CatalogEntry, error) {
	return m.entries, nil
}

func (m *mockCatalog) Close() error { return nil }

// --- Test helpers ---

func scoredChunk(source string, page int, seq int, text string, score float64) domain.ScoredChunk {
	return domain.ScoredChunk{
		Chunk: domain.Chunk{
			ID:     domain.ChunkID(source, page, seq, text),
			Source: source,
			Page:   page,
			Start:  0,
			End:    len(text),
			Text:   text,
			Seq:    seq,
		},
		Score: score,
	}
}
