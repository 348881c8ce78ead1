package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/grounded-labs/askdocs-cli/internal/logger"
)

// Ensure GroundingAgent implements the interface.
var _ driving.AnswerService = (*GroundingAgent)(nil)

// Default agent parameters; all overridable via options.
const (
	DefaultTopK          = 6
	DefaultMinScore      = 0.15
	DefaultRetryBackoff  = 2 * time.Second
	noEvidenceReason     = "no relevant evidence in the indexed documents"
	insufficientReason   = "the indexed documents do not contain sufficient evidence to answer"
	defaultMissingAspect = "a document that explicitly discusses the topic of the question"
)

// GroundingAgent drives one query through the grounding protocol:
// retrieve evidence, obtain a sufficiency judgment, validate the
// provider's claims, and emit exactly one terminal decision. It never
// answers without at least one citation drawn from retrieved evidence.
type GroundingAgent struct {
	retriever driving.SearchService
	llm       driven.LLMService
	topK      int
	minScore  float64
	backoff   time.Duration
}

// AgentOption configures a GroundingAgent.
type AgentOption func(*GroundingAgent)

// WithTopK sets how many chunks are retrieved per query.
func WithTopK(k int) AgentOption {
	return func(a *GroundingAgent) {
		if k > 0 {
			a.topK = k
		}
	}
}

// WithMinScore sets the minimum similarity floor for evidence.
func WithMinScore(s float64) AgentOption {
	return func(a *GroundingAgent) { a.minScore = s }
}

// WithRetryBackoff sets the wait before the single provider retry.
func WithRetryBackoff(d time.Duration) AgentOption {
	return func(a *GroundingAgent) {
		if d >= 0 {
			a.backoff = d
		}
	}
}

// NewGroundingAgent creates an agent over the given retriever and
// generation provider.
func NewGroundingAgent(retriever driving.SearchService, llm driven.LLMService, opts ...AgentOption) *GroundingAgent {
	a := &GroundingAgent{
		retriever: retriever,
		llm:       llm,
		topK:      DefaultTopK,
		minScore:  DefaultMinScore,
		backoff:   DefaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask runs one pass of the protocol. The query is normalised, evidence
// retrieved, the provider's judgment validated, and one of the three
// terminal decisions returned. No retries happen within a single query
// beyond the bounded provider retry.
func (a *GroundingAgent) Ask(ctx context.Context, query string) (domain.Decision, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Decision{}, domain.ErrInvalidQuery
	}

	logger.Section("Grounded Answer")
	logger.Debug("Query: %q", query)

	chunks, err := a.retriever.Search(ctx, query, a.topK, a.minScore)
	if err != nil && !errors.Is(err, domain.ErrEmptyIndex) {
		return domain.Decision{}, fmt.Errorf("retrieval failed: %w", err)
	}
	if errors.Is(err, domain.ErrEmptyIndex) || len(chunks) == 0 {
		// The only place a technical condition becomes a domain decision.
		logger.Info("No evidence above floor, requesting clarification")
		return domain.Decision{
			Outcome: domain.OutcomeClarify,
			Reason:  noEvidenceReason,
			Missing: defaultMissingAspect,
		}, nil
	}

	evidence := make([]domain.Chunk, len(chunks))
	for i, sc := range chunks {
		evidence[i] = sc.Chunk
	}

	judgment, err := a.judgeWithRetry(ctx, query, evidence)
	if err != nil {
		return domain.Decision{}, err
	}

	cited := a.validateCitations(judgment, evidence)
	verdict := judgment.Verdict
	if (verdict == domain.VerdictSufficient || verdict == domain.VerdictPartial) &&
		(len(cited) == 0 || strings.TrimSpace(judgment.Answer) == "") {
		// A claimed answer with no verifiable citation is no answer.
		logger.Warn("Provider claim failed citation validation, downgrading")
		verdict = domain.VerdictInsufficient
	}

	switch verdict {
	case domain.VerdictSufficient:
		return domain.Decision{
			Outcome:   domain.OutcomeAnswered,
			Answer:    judgment.Answer,
			Citations: citationsOf(cited),
		}, nil

	case domain.VerdictPartial:
		caveat := strings.TrimSpace(judgment.Missing)
		if caveat == "" {
			caveat = "the documents do not cover every aspect of the question"
		}
		return domain.Decision{
			Outcome:   domain.OutcomePartial,
			Answer:    judgment.Answer,
			Caveat:    caveat,
			Citations: citationsOf(cited),
		}, nil

	default:
		missing := strings.TrimSpace(judgment.Missing)
		if missing == "" {
			missing = defaultMissingAspect
		}
		return domain.Decision{
			Outcome: domain.OutcomeClarify,
			Reason:  insufficientReason,
			Missing: missing,
		}, nil
	}
}

// judgeWithRetry calls the provider once, retries once after a backoff,
// and surfaces domain.ErrProviderUnavailable when both attempts fail.
func (a *GroundingAgent) judgeWithRetry(ctx context.Context, query string, evidence []domain.Chunk) (domain.Judgment, error) {
	judgment, err := a.llm.Judge(ctx, query, evidence)
	if err == nil {
		return judgment, nil
	}
	logger.Warn("Judgment call failed, retrying once: %v", err)

	select {
	case <-ctx.Done():
		return domain.Judgment{}, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, ctx.Err())
	case <-time.After(a.backoff):
	}

	judgment, err = a.llm.Judge(ctx, query, evidence)
	if err != nil {
		return domain.Judgment{}, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	return judgment, nil
}

// validateCitations keeps only cited chunk IDs that are present in the
// retrieved set, preserving the provider's citation order. Anything else
// the provider claims is discarded.
func (a *GroundingAgent) validateCitations(judgment domain.Judgment, evidence []domain.Chunk) []domain.Chunk {
	byID := make(map[string]domain.Chunk, len(evidence))
	for _, c := range evidence {
		byID[c.ID] = c
	}

	var cited []domain.Chunk
	seen := make(map[string]struct{}, len(judgment.CitedChunkIDs))
	for _, id := range judgment.CitedChunkIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		chunk, ok := byID[id]
		if !ok {
			logger.Warn("Provider cited unknown chunk %s, rejecting claim", id)
			continue
		}
		cited = append(cited, chunk)
	}
	return cited
}

// citationsOf maps chunks to their unique (source, page) citations in
// first-use order.
func citationsOf(chunks []domain.Chunk) []domain.Citation {
	seen := make(map[domain.Citation]struct{}, len(chunks))
	citations := make([]domain.Citation, 0, len(chunks))
	for _, c := range chunks {
		cite := domain.Citation{Source: c.Source, Page: c.Page}
		if _, dup := seen[cite]; dup {
			continue
		}
		seen[cite] = struct{}{}
		citations = append(citations, cite)
	}
	return citations
}
