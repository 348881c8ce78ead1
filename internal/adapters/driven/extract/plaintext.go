// Package extract provides document source adapters that turn files into
// ordered, page-tagged text.
package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Plaintext implements the interface.
var _ driven.Extractor = (*Plaintext)(nil)

// Plaintext handles formats without native pagination (txt, md); the
// whole file becomes page 1.
type Plaintext struct{}

// NewPlaintext creates a plain text extractor.
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Plaintext) Extensions() []string {
	return []string{".txt", ".md"}
}

// Extract reads the file as a single-page document. Carriage returns are
// dropped so offsets are stable across platforms.
func (e *Plaintext) Extract(_ context.Context, path string) (domain.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, &domain.ExtractionError{Path: path, Err: err}
	}

	text := strings.ReplaceAll(string(raw), "\r", "")
	return domain.Document{
		Source: filepath.Base(path),
		Pages:  []domain.Page{{Number: 1, Text: text}},
	}, nil
}
