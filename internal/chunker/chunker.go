// Package chunker splits page-tagged document text into overlapping
// fixed-size windows with position-preserving metadata.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
)

// DefaultWindowSize is the default window size in bytes.
const DefaultWindowSize = 2000

// DefaultOverlap is the default overlap between consecutive windows.
const DefaultOverlap = 200

// Chunker produces page-bounded overlapping chunks. Identical input and
// parameters always yield byte-identical chunk sequences, which keeps
// citations reproducible and makes catalog-based dedup sound.
type Chunker struct {
	windowSize int
	overlap    int
}

// New creates a chunker. Parameters must satisfy 0 <= overlap < windowSize;
// anything else is a configuration error rejected before any I/O.
func New(windowSize, overlap int) (*Chunker, error) {
	if windowSize <= 0 || overlap < 0 || overlap >= windowSize {
		return nil, domain.ErrInvalidChunking
	}
	return &Chunker{windowSize: windowSize, overlap: overlap}, nil
}

// Split chunks every page of doc. Windows advance by windowSize-overlap
// and never cross a page boundary; the final window of a page is
// truncated to the page end, and windows that are empty after trimming
// whitespace are skipped. An empty page yields no chunks.
//
// Offsets are byte positions, but window edges snap back to UTF-8 rune
// boundaries so a chunk never splits a multi-byte rune. Snapping can
// widen the effective overlap by up to three bytes; it never shrinks a
// window below one rune, and never leaves a byte of the page uncovered.
func (c *Chunker) Split(doc domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	seq := 0

	for _, page := range doc.Pages {
		n := len(page.Text)
		for start := 0; start < n; {
			end := start + c.windowSize
			if end >= n {
				end = n
			} else {
				for end > start && !utf8.RuneStart(page.Text[end]) {
					end--
				}
			}
			if end == start {
				// The rune at start is wider than the window; take it whole.
				_, size := utf8.DecodeRuneInString(page.Text[start:])
				end = start + size
			}

			text := page.Text[start:end]
			if strings.TrimSpace(text) != "" {
				chunks = append(chunks, domain.Chunk{
					ID:     domain.ChunkID(doc.Source, page.Number, seq, text),
					Source: doc.Source,
					Page:   page.Number,
					Start:  start,
					End:    end,
					Text:   text,
					Seq:    seq,
				})
				seq++
			}

			if end == n {
				break
			}
			next := end - c.overlap
			for next > start && !utf8.RuneStart(page.Text[next]) {
				next--
			}
			if next <= start {
				next = end
			}
			start = next
		}
	}

	return chunks
}

// WindowSize returns the configured window size in bytes.
func (c *Chunker) WindowSize() int { return c.windowSize }

// Overlap returns the configured overlap in bytes.
func (c *Chunker) Overlap() int { return c.overlap }
