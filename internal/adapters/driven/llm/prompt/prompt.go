// Package prompt builds and parses the constrained judgment protocol
// shared by the LLM adapters.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
)

// judgeSystem constrains the provider to the evidence and to the
// structured verdict format. The provider's output is still validated by
// the agent; this prompt just makes compliant output likely.
const judgeSystem = `You are a careful research assistant.
You must decide whether the provided context chunks answer the question, using ONLY the context.

Respond with a single JSON object and nothing else:
{"verdict": "sufficient" | "partial" | "insufficient",
 "cited_chunk_ids": ["<id>", ...],
 "answer": "<answer text, empty when insufficient>",
 "missing": "<what information or document is missing, empty when sufficient>"}

Rules:
- "sufficient": the context fully answers the question. Compose the answer from the cited chunks only.
- "partial": the context answers part of the question. Answer what is supported and name the missing aspect.
- "insufficient": the context does not answer the question. Leave "answer" empty and describe in "missing" what kind of source would resolve it.
- "cited_chunk_ids" may only contain ids of chunks you actually used.
- Never answer from general knowledge.`

// generateSystem is used for free-form composition when judgment and
// composition are split.
const generateSystem = `You are a careful research assistant.
Answer ONLY from the provided context. Include citations as [source, page N].
If the context does not contain the answer, say so explicitly.`

// JudgeMessages returns the (system, user) pair for a judgment call.
func JudgeMessages(query string, chunks []domain.Chunk) (string, string) {
	return judgeSystem, fmt.Sprintf("QUESTION:\n%s\n\nCONTEXT CHUNKS:\n%s", query, renderChunks(chunks))
}

// GenerateMessages returns the (system, user) pair for a composition call.
func GenerateMessages(query string, chunks []domain.Chunk, instructions string) (string, string) {
	system := generateSystem
	if strings.TrimSpace(instructions) != "" {
		system = system + "\n\n" + instructions
	}
	return system, fmt.Sprintf("QUESTION:\n%s\n\nCONTEXT (use only this):\n%s", query, renderChunks(chunks))
}

// renderChunks lays out each chunk with its id and citation so the
// provider can reference chunks precisely.
func renderChunks(chunks []domain.Chunk) string {
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		fmt.Fprintf(&b, "chunk_id: %s\ncitation: [%s, page %d]\n%s\n", c.ID, c.Source, c.Page, c.Text)
	}
	return b.String()
}

// wireJudgment is the provider's JSON response shape.
type wireJudgment struct {
	Verdict       string   `json:"verdict"`
	CitedChunkIDs []string `json:"cited_chunk_ids"`
	Answer        string   `json:"answer"`
	Missing       string   `json:"missing"`
}

// ParseJudgment decodes the provider's response. Markdown fences and
// surrounding prose are tolerated; a response without a well-formed
// verdict object is a malformed-response error, which callers treat as
// a provider failure (retried once by the agent).
func ParseJudgment(raw string) (domain.Judgment, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return domain.Judgment{}, fmt.Errorf("malformed judgment response: no JSON object")
	}

	var wire wireJudgment
	if err := json.Unmarshal([]byte(raw[start:end+1]), &wire); err != nil {
		return domain.Judgment{}, fmt.Errorf("malformed judgment response: %w", err)
	}

	verdict := domain.Verdict(strings.ToLower(strings.TrimSpace(wire.Verdict)))
	switch verdict {
	case domain.VerdictSufficient, domain.VerdictPartial, domain.VerdictInsufficient:
	default:
		return domain.Judgment{}, fmt.Errorf("malformed judgment response: unknown verdict %q", wire.Verdict)
	}

	return domain.Judgment{
		Verdict:       verdict,
		CitedChunkIDs: wire.CitedChunkIDs,
		Answer:        strings.TrimSpace(wire.Answer),
		Missing:       strings.TrimSpace(wire.Missing),
	}, nil
}
