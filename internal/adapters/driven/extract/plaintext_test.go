package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
)

func TestPlaintext_Extensions(t *testing.T) {
	e := NewPlaintext()
	assert.ElementsMatch(t, []string{".txt", ".md"}, e.Extensions())
}

func TestPlaintext_Extract(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("The dog sat.\nThe cat slept."), 0600))

	doc, err := NewPlaintext().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", doc.Source)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Equal(t, "The dog sat.\nThe cat slept.", doc.Pages[0].Text)
}

func TestPlaintext_Extract_StripsCarriageReturns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "windows.md")
	require.NoError(t, os.WriteFile(path, []byte("line one\r\nline two\r\n"), 0600))

	doc, err := NewPlaintext().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", doc.Pages[0].Text)
}

func TestPlaintext_Extract_MissingFile(t *testing.T) {
	_, err := NewPlaintext().Extract(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)

	var extractionErr *domain.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Contains(t, extractionErr.Path, "missing.txt")
}
