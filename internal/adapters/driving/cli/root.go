// Package cli provides the cobra command surface for askdocs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/grounded-labs/askdocs-cli/internal/logger"
)

// version is the CLI version, overridable at build time via ldflags.
var version = "0.1.0"

// Services aggregates everything the commands need. Main constructs the
// adapters and injects them here; commands check for nil and fail with a
// clear message instead of panicking.
type Services struct {
	Ingest  driving.IngestService
	Answer  driving.AnswerService
	Search  driving.SearchService
	Index   driven.VectorIndex
	Catalog driven.IngestCatalog

	// EmbeddingModel and LLMModel are shown by status.
	EmbeddingModel string
	LLMModel       string
}

var services *Services

// SetServices injects the application services used by the commands.
func SetServices(s *Services) {
	services = s
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "askdocs",
	Short: "Ask questions against your own documents, with citations",
	Long: `askdocs answers natural-language questions strictly from a local
document corpus. Every answer carries (source, page) citations, and when
the corpus lacks sufficient evidence the tool asks for clarification
instead of guessing.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
