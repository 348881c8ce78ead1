package domain

// ScoredChunk is a retrieved chunk paired with its cosine similarity to
// the query, in [-1, 1].
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Outcome is the terminal state of a single query pass through the
// grounding agent.
type Outcome string

const (
	// OutcomeAnswered means the evidence fully supported an answer.
	OutcomeAnswered Outcome = "answered"

	// OutcomePartial means the evidence supported only part of the
	// question; the decision carries a caveat naming the gap.
	OutcomePartial Outcome = "partial"

	// OutcomeClarify means the evidence was insufficient and the agent
	// asks for clarification or a better source instead of answering.
	OutcomeClarify Outcome = "clarify"
)

// Decision is the agent's response to one query. Exactly one outcome is
// set; Answered and Partial decisions always carry at least one citation.
type Decision struct {
	Outcome Outcome `json:"outcome"`

	// Answer is the composed answer text (answered and partial only).
	Answer string `json:"answer,omitempty"`

	// Caveat names the missing aspect for a partial answer.
	Caveat string `json:"caveat,omitempty"`

	// Reason explains a clarify outcome.
	Reason string `json:"reason,omitempty"`

	// Missing describes what kind of source would resolve a clarify
	// outcome.
	Missing string `json:"missing,omitempty"`

	// Citations are the (source, page) pairs the answer rests on, each
	// traceable to a chunk that was passed to the judgment step.
	Citations []Citation `json:"citations,omitempty"`
}

// Verdict is the sufficiency judgment returned by the generation
// provider for a set of retrieved chunks.
type Verdict string

const (
	// VerdictSufficient means the chunks fully answer the query.
	VerdictSufficient Verdict = "sufficient"

	// VerdictPartial means the chunks answer part of the query.
	VerdictPartial Verdict = "partial"

	// VerdictInsufficient means the chunks do not answer the query.
	VerdictInsufficient Verdict = "insufficient"
)

// Judgment is the provider's structured claim about evidence sufficiency.
// The agent treats it as untrusted: cited chunk IDs are validated against
// the retrieved set before any of it is used.
type Judgment struct {
	// Verdict is the sufficiency call.
	Verdict Verdict

	// CitedChunkIDs are the chunks the provider claims it used.
	CitedChunkIDs []string

	// Answer is the composed answer text (sufficient and partial only).
	Answer string

	// Missing names the unanswered aspect (partial and insufficient).
	Missing string
}
