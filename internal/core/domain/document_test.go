package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkID_Deterministic(t *testing.T) {
	a := ChunkID("doc.pdf", 3, 7, "some chunk text")
	b := ChunkID("doc.pdf", 3, 7, "some chunk text")
	assert.Equal(t, a, b)
	assert.Len(t, a, 24)
}

func TestChunkID_SensitiveToEveryComponent(t *testing.T) {
	base := ChunkID("doc.pdf", 3, 7, "text")
	assert.NotEqual(t, base, ChunkID("other.pdf", 3, 7, "text"))
	assert.NotEqual(t, base, ChunkID("doc.pdf", 4, 7, "text"))
	assert.NotEqual(t, base, ChunkID("doc.pdf", 3, 8, "text"))
	assert.NotEqual(t, base, ChunkID("doc.pdf", 3, 7, "other text"))
}

func TestCitation_String(t *testing.T) {
	c := Citation{Source: "report.pdf", Page: 12}
	assert.Equal(t, "[report.pdf, page 12]", c.String())
}

func TestExtractionError(t *testing.T) {
	cause := errors.New("permission denied")
	err := &ExtractionError{Path: "/corpus/locked.pdf", Err: cause}

	assert.Contains(t, err.Error(), "locked.pdf")
	assert.ErrorIs(t, err, cause)
}
