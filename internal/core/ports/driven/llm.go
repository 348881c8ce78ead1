package driven

import (
	"context"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
)

// LLMService provides the generation side of the grounding protocol.
// Both operations are treated as untrusted text generators: structured
// claims (verdicts, cited chunk IDs) are validated against the retrieved
// set by the agent before use.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini and compatible chat-completion APIs)
//   - Ollama (local models)
type LLMService interface {
	// Judge evaluates whether the chunks are sufficient evidence to
	// answer the query. The provider must return one of the three
	// verdicts plus, for sufficient/partial, the chunks it actually
	// used and the composed answer text.
	Judge(ctx context.Context, query string, chunks []domain.Chunk) (domain.Judgment, error)

	// Generate produces free-form answer text from the query and chunks
	// under the given instructions. Used when composition is split from
	// judgment.
	Generate(ctx context.Context, query string, chunks []domain.Chunk, instructions string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
