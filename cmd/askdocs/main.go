// Command askdocs answers natural-language questions strictly from a
// local document corpus, with (source, page) citations.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grounded-labs/askdocs-cli/internal/adapters/driven/config/file"
	"github.com/grounded-labs/askdocs-cli/internal/adapters/driven/embedding/ollama"
	"github.com/grounded-labs/askdocs-cli/internal/adapters/driven/embedding/openai"
	"github.com/grounded-labs/askdocs-cli/internal/adapters/driven/extract"
	"github.com/grounded-labs/askdocs-cli/internal/adapters/driven/index/flat"
	ollamallm "github.com/grounded-labs/askdocs-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/grounded-labs/askdocs-cli/internal/adapters/driven/llm/openai"
	"github.com/grounded-labs/askdocs-cli/internal/adapters/driven/storage/sqlite"
	"github.com/grounded-labs/askdocs-cli/internal/adapters/driving/cli"
	"github.com/grounded-labs/askdocs-cli/internal/chunker"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/grounded-labs/askdocs-cli/internal/core/services"
	"github.com/grounded-labs/askdocs-cli/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.Load(os.Getenv("ASKDOCS_CONFIG_DIR"))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	index, err := flat.Open(filepath.Join(cfg.DataDir, "index"))
	if err != nil {
		return err
	}
	defer index.Close()

	catalog, err := sqlite.NewCatalog(cfg.DataDir)
	if err != nil {
		return err
	}
	defer catalog.Close()

	embedder, err := buildEmbedder(cfg.Embedding)
	if err != nil {
		logger.Warn("Embedding provider not configured: %v", err)
	}
	llm, err := buildLLM(cfg.LLM)
	if err != nil {
		logger.Warn("LLM provider not configured: %v", err)
	}

	svcs := &cli.Services{
		Index:   index,
		Catalog: catalog,
	}

	if embedder != nil {
		defer embedder.Close()
		svcs.EmbeddingModel = embedder.ModelName()

		ch, err := chunker.New(cfg.Chunking.WindowSize, cfg.Chunking.Overlap)
		if err != nil {
			return fmt.Errorf("invalid chunking config: %w", err)
		}
		extractors := []driven.Extractor{
			extract.NewPlaintext(),
			extract.NewPDF(),
			extract.NewDOCX(),
		}
		svcs.Ingest = services.NewIngestService(
			extractors, ch, embedder, index, catalog,
			services.WithEmbedBatchSize(cfg.Chunking.EmbedBatchSize),
		)

		retriever := services.NewRetriever(index, embedder)
		svcs.Search = retriever

		if llm != nil {
			defer llm.Close()
			svcs.LLMModel = llm.ModelName()
			svcs.Answer = services.NewGroundingAgent(
				retriever, llm,
				services.WithTopK(cfg.Retrieval.TopK),
				services.WithMinScore(cfg.Retrieval.MinScore),
			)
		}
	}

	cli.SetServices(svcs)
	return cli.Execute()
}

// buildEmbedder constructs the embedding adapter named by the config.
func buildEmbedder(pc file.ProviderConfig) (driven.EmbeddingService, error) {
	switch pc.Provider {
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
			Timeout: pc.Timeout(),
		}), nil
	case "openai", "":
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:  pc.APIKey(),
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
			Timeout: pc.Timeout(),
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", pc.Provider)
	}
}

// buildLLM constructs the generation adapter named by the config.
func buildLLM(pc file.ProviderConfig) (driven.LLMService, error) {
	switch pc.Provider {
	case "ollama":
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
			Timeout: pc.Timeout(),
		}), nil
	case "openai", "":
		svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  pc.APIKey(),
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
			Timeout: pc.Timeout(),
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", pc.Provider)
	}
}
