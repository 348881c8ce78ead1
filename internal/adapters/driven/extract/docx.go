package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure DOCX implements the interface.
var _ driven.Extractor = (*DOCX)(nil)

// DOCX extracts paragraph text from word/document.xml. DOCX files carry
// no reliable page boundaries (pagination is a renderer concern), so the
// whole document becomes page 1.
type DOCX struct{}

// NewDOCX creates a DOCX extractor.
func NewDOCX() *DOCX {
	return &DOCX{}
}

// Extensions returns the file extensions this extractor handles.
func (e *DOCX) Extensions() []string {
	return []string{".docx"}
}

// Extract opens the file as a ZIP archive and pulls paragraph text.
func (e *DOCX) Extract(_ context.Context, path string) (domain.Document, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return domain.Document{}, &domain.ExtractionError{Path: path, Err: err}
	}
	defer reader.Close()

	text, err := documentText(&reader.Reader)
	if err != nil {
		return domain.Document{}, &domain.ExtractionError{Path: path, Err: err}
	}

	return domain.Document{
		Source: filepath.Base(path),
		Pages:  []domain.Page{{Number: 1, Text: text}},
	}, nil
}

// documentXML mirrors the parts of word/document.xml we read.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// documentText extracts paragraph text from word/document.xml.
func documentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}

		var doc documentXML
		if err := xml.Unmarshal(content, &doc); err != nil {
			return "", err
		}

		var result strings.Builder
		for i, para := range doc.Body.Paragraphs {
			if i > 0 {
				result.WriteString("\n")
			}
			for _, r := range para.Runs {
				for _, t := range r.Text {
					result.WriteString(t.Content)
				}
			}
		}
		return strings.TrimSpace(result.String()), nil
	}
	return "", errors.New("word/document.xml not found")
}
