package driven

import (
	"context"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
)

// Extractor converts a source file into ordered, page-tagged text.
// Page numbers start at 1. Formats without native pagination (txt, md,
// docx) yield a single page. Unreadable or non-extractable files fail
// with *domain.ExtractionError carrying the file path.
type Extractor interface {
	// Extract parses the file at path into a Document.
	Extract(ctx context.Context, path string) (domain.Document, error)

	// Extensions returns the lower-case file extensions this extractor
	// handles, including the leading dot.
	Extensions() []string
}
