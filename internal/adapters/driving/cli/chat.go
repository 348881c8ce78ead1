package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/grounded-labs/askdocs-cli/internal/adapters/driving/tui"
)

var chatPlain bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question-answering session",
	Long: `Starts an interactive session against the indexed corpus. Each
question runs one pass of the grounding protocol and prints the decision
with its citations.

Controls (interactive UI):
  Enter     - Ask
  ↑/↓       - Scroll history
  Ctrl+C    - Quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "line-based prompt instead of the interactive UI")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Answer == nil {
		return errors.New("answer service not configured (is the LLM provider set up?)")
	}

	if chatPlain {
		return runPlainChat(cmd)
	}

	model := tui.New(services.Answer)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat UI failed: %w", err)
	}
	return nil
}

// runPlainChat is the line-based loop for non-TTY use.
func runPlainChat(cmd *cobra.Command) error {
	scanner := bufio.NewScanner(os.Stdin)
	cmd.Println(`Ask a question (empty line or "exit" to quit).`)

	for {
		cmd.Print("\nAsk> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" || strings.EqualFold(query, "exit") || strings.EqualFold(query, "quit") {
			return nil
		}

		decision, err := services.Answer.Ask(context.Background(), query)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			continue
		}
		cmd.Println()
		printDecision(cmd, decision)
	}
}
