package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.Equal(t, 2000, cfg.Chunking.WindowSize)
	assert.Equal(t, 200, cfg.Chunking.Overlap)
	assert.Equal(t, 16, cfg.Chunking.EmbedBatchSize)
	assert.Equal(t, 6, cfg.Retrieval.TopK)
	assert.Equal(t, 0.15, cfg.Retrieval.MinScore)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, "openai", cfg.LLM.Provider)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
data_dir = "/tmp/askdocs-data"

[chunking]
window_size = 1000
overlap = 100

[retrieval]
top_k = 10
min_score = 0.3

[embedding]
provider = "ollama"
model = "nomic-embed-text"

[llm]
provider = "ollama"
base_url = "http://localhost:11434"
timeout_seconds = 90
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/askdocs-data", cfg.DataDir)
	assert.Equal(t, 1000, cfg.Chunking.WindowSize)
	assert.Equal(t, 100, cfg.Chunking.Overlap)
	assert.Equal(t, 10, cfg.Retrieval.TopK)
	assert.Equal(t, 0.3, cfg.Retrieval.MinScore)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout())

	// Untouched sections keep their defaults.
	assert.Equal(t, 16, cfg.Chunking.EmbedBatchSize)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid toml"), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestProviderConfig_APIKey(t *testing.T) {
	t.Setenv("ASKDOCS_TEST_KEY", "secret")

	pc := ProviderConfig{APIKeyEnv: "ASKDOCS_TEST_KEY"}
	assert.Equal(t, "secret", pc.APIKey())

	t.Setenv("OPENAI_API_KEY", "default-secret")
	assert.Equal(t, "default-secret", ProviderConfig{}.APIKey())
}

func TestProviderConfig_Timeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), ProviderConfig{}.Timeout())
	assert.Equal(t, 45*time.Second, ProviderConfig{TimeoutSeconds: 45}.Timeout())
}
