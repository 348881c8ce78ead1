package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Document is a parsed source file, split into pages by the extractor.
// Documents are immutable once ingested.
type Document struct {
	// Source is the document identifier (the source filename).
	Source string

	// Pages is the ordered page sequence, numbered from 1.
	Pages []Page
}

// Page is one page of extracted text.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the extracted page text.
	Text string
}

// Chunk is a bounded span of one page's text, the atomic unit of retrieval.
// A chunk never crosses a page boundary, so a citation always resolves to
// exactly one page.
type Chunk struct {
	// ID is a deterministic identifier derived from the chunk's content
	// and position. Re-chunking the same document yields the same IDs,
	// which keeps citations reproducible across ingestion runs.
	ID string

	// Source is the originating document's identifier.
	Source string

	// Page is the page number containing the chunk's start offset.
	Page int

	// Start and End are byte offsets within the page text, End > Start.
	Start int
	End   int

	// Text is the chunk content.
	Text string

	// Seq is the chunk's position within the document, strictly
	// increasing per document.
	Seq int
}

// ChunkID computes the deterministic chunk identifier.
func ChunkID(source string, page, seq int, text string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d|%s", source, page, seq, text)))
	return hex.EncodeToString(h[:])[:24]
}

// Citation points a statement back to a (source, page) pair. Every
// citation the agent emits is traceable to at least one retrieved chunk.
type Citation struct {
	Source string `json:"source"`
	Page   int    `json:"page"`
}

// String renders the citation in the conventional [source, page N] form.
func (c Citation) String() string {
	return fmt.Sprintf("[%s, page %d]", c.Source, c.Page)
}
