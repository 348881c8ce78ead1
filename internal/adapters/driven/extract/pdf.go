package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure PDF implements the interface.
var _ driven.Extractor = (*PDF)(nil)

// PDF extracts text page by page so every chunk cites a real page
// number. Pages with no extractable text (scanned images) are kept out
// of the document; the page numbering of the remaining pages is
// preserved.
type PDF struct{}

// NewPDF creates a PDF extractor.
func NewPDF() *PDF {
	return &PDF{}
}

// Extensions returns the file extensions this extractor handles.
func (e *PDF) Extensions() []string {
	return []string{".pdf"}
}

// Extract parses the PDF at path into one Page per document page.
func (e *PDF) Extract(_ context.Context, path string) (domain.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return domain.Document{}, &domain.ExtractionError{Path: path, Err: err}
	}
	defer f.Close()

	doc := domain.Document{Source: filepath.Base(path)}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return domain.Document{}, &domain.ExtractionError{Path: path, Err: err}
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		doc.Pages = append(doc.Pages, domain.Page{Number: i, Text: text})
	}

	return doc, nil
}
