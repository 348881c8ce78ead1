package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and catalog state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Index == nil {
		return errors.New("index not configured")
	}

	cmd.Printf("Vector index: %d chunk(s)", services.Index.Len())
	if dim := services.Index.Dimensions(); dim > 0 {
		cmd.Printf(", %d dimensions", dim)
	}
	cmd.Println()

	if services.EmbeddingModel != "" {
		cmd.Printf("Embedding model: %s\n", services.EmbeddingModel)
	}
	if services.LLMModel != "" {
		cmd.Printf("LLM model: %s\n", services.LLMModel)
	}

	if services.Catalog == nil {
		return nil
	}
	entries, err := services.Catalog.Entries(context.Background())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	cmd.Println("\nIngested documents:")
	for _, e := range entries {
		cmd.Printf("  %s  %d chunk(s)  %s\n", e.Source, e.Chunks, e.IngestedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
