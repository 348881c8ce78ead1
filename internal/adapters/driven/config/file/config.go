// Package file provides the TOML-backed configuration store.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default locations under the user's home directory.
const (
	DefaultConfigDirName = ".askdocs"
	configFileName       = "config.toml"
)

// Config is the full application configuration. Zero values are replaced
// with defaults by Load, so a missing or partial config file is fine.
type Config struct {
	// DataDir holds the vector index and the ingest catalog.
	DataDir string `toml:"data_dir"`

	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Embedding ProviderConfig  `toml:"embedding"`
	LLM       ProviderConfig  `toml:"llm"`
}

// ChunkingConfig controls the ingestion chunker.
type ChunkingConfig struct {
	// WindowSize is the chunk window in bytes.
	WindowSize int `toml:"window_size"`

	// Overlap is the overlap between consecutive windows in bytes.
	// Must be smaller than WindowSize.
	Overlap int `toml:"overlap"`

	// EmbedBatchSize is how many chunks are embedded per provider call.
	EmbedBatchSize int `toml:"embed_batch_size"`
}

// RetrievalConfig controls query-time retrieval.
type RetrievalConfig struct {
	// TopK is how many chunks are retrieved per query.
	TopK int `toml:"top_k"`

	// MinScore is the minimum cosine similarity for evidence.
	MinScore float64 `toml:"min_score"`
}

// ProviderConfig configures one AI provider (embedding or LLM).
type ProviderConfig struct {
	// Provider is "openai" or "ollama".
	Provider string `toml:"provider"`

	// Model is the provider-specific model name; empty uses the
	// adapter's default.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key
	// (default OPENAI_API_KEY for openai). Keys never live in the file.
	APIKeyEnv string `toml:"api_key_env"`

	// TimeoutSeconds bounds each provider call.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration, 0 if unset.
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// APIKey resolves the provider API key from the environment.
func (p ProviderConfig) APIKey() string {
	env := p.APIKeyEnv
	if env == "" {
		env = "OPENAI_API_KEY"
	}
	return os.Getenv(env)
}

// DefaultConfigDir returns ~/.askdocs.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDirName), nil
}

// defaults returns the configuration used when no file is present.
func defaults(configDir string) Config {
	return Config{
		DataDir: filepath.Join(configDir, "data"),
		Chunking: ChunkingConfig{
			WindowSize:     2000,
			Overlap:        200,
			EmbedBatchSize: 16,
		},
		Retrieval: RetrievalConfig{
			TopK:     6,
			MinScore: 0.15,
		},
		Embedding: ProviderConfig{Provider: "openai"},
		LLM:       ProviderConfig{Provider: "openai"},
	}
}

// Load reads configDir/config.toml over the defaults. A missing file is
// not an error; a malformed one is.
func Load(configDir string) (Config, error) {
	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return Config{}, err
		}
		configDir = dir
	}

	cfg := defaults(configDir)

	raw, err := os.ReadFile(filepath.Join(configDir, configFileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
