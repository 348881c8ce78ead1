package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Index every supported document in a directory",
	Long: `Scans the directory for .txt, .md, .pdf and .docx files, splits them
into page-bounded chunks, embeds the chunks and appends them to the
persistent vector index. Documents already indexed (same name and
content) are skipped, so re-running ingest is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if services == nil || services.Ingest == nil {
		return errors.New("ingest service not configured (is the embedding provider set up?)")
	}

	report, err := services.Ingest.Ingest(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if ingestJSON {
		type failure struct {
			Path  string `json:"path"`
			Error string `json:"error"`
		}
		out := struct {
			RunID          string    `json:"run_id"`
			FilesIndexed   int       `json:"files_indexed"`
			FilesSkipped   int       `json:"files_skipped"`
			ChunksAppended int       `json:"chunks_appended"`
			Failures       []failure `json:"failures,omitempty"`
		}{
			RunID:          report.RunID,
			FilesIndexed:   report.FilesIndexed,
			FilesSkipped:   report.FilesSkipped,
			ChunksAppended: report.ChunksAppended,
		}
		for _, f := range report.Failures {
			out.Failures = append(out.Failures, failure{Path: f.Path, Error: f.Err.Error()})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Indexed %d file(s), %d chunk(s) appended, %d skipped.\n",
		report.FilesIndexed, report.ChunksAppended, report.FilesSkipped)
	for _, f := range report.Failures {
		cmd.Printf("  failed: %s: %v\n", f.Path, f.Err)
	}
	return nil
}
