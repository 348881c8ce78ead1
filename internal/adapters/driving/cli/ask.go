package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question from the indexed corpus",
	Long: `Runs one pass of the grounding protocol: retrieve evidence, judge
sufficiency, then answer with citations, answer partially with a caveat,
or ask for clarification.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the decision as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if services == nil || services.Answer == nil {
		return errors.New("answer service not configured (is the LLM provider set up?)")
	}

	decision, err := services.Answer.Ask(context.Background(), args[0])
	if errors.Is(err, domain.ErrInvalidQuery) {
		return errors.New("the question is empty")
	}
	if errors.Is(err, domain.ErrProviderUnavailable) {
		return fmt.Errorf("the generation provider is unavailable, try again later: %w", err)
	}
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(decision, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal decision: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printDecision(cmd, decision)
	return nil
}

// printDecision renders a decision for the terminal.
func printDecision(cmd *cobra.Command, d domain.Decision) {
	switch d.Outcome {
	case domain.OutcomeAnswered:
		cmd.Println(d.Answer)
	case domain.OutcomePartial:
		cmd.Println(d.Answer)
		cmd.Printf("\nNote: %s\n", d.Caveat)
	case domain.OutcomeClarify:
		cmd.Printf("I can't answer that from the indexed documents: %s.\n", d.Reason)
		if d.Missing != "" {
			cmd.Printf("What would help: %s.\n", d.Missing)
		}
	}

	if len(d.Citations) > 0 {
		cmd.Println("\nSources:")
		for _, c := range d.Citations {
			cmd.Printf("  %s\n", c)
		}
	}
}
