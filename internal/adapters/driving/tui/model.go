// Package tui is the interactive chat surface, a Bubble Tea program with
// a scrollable transcript and a single-line question prompt.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grounded-labs/askdocs-cli/internal/core/domain"
	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driving"
)

// decisionMsg carries one completed Ask back into the update loop.
type decisionMsg struct {
	query    string
	decision domain.Decision
	err      error
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	answers    driving.AnswerService
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	status     string
	waiting    bool
	ready      bool
}

// New creates a chat model bound to the answer service.
func New(answers driving.AnswerService) Model {
	ti := textinput.New()
	ti.Prompt = "Ask> "
	ti.Placeholder = "Type a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		answers:  answers,
		input:    ti,
		viewport: vp,
		status:   "Ready. Answers come only from the indexed corpus.",
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and decision events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := transcriptStyle.GetFrameSize()
		_, ph := promptStyle.GetFrameSize()
		reserved := 1 + 1 + ph + 1 // header, status, prompt frame, spacer
		vh := msg.Height - reserved - fh
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.waiting {
				return m, nil
			}
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.status = "Thinking..."
			m.transcript = append(m.transcript, questionStyle.Render("You: "+q))
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, askCmd(m.answers, q)
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}

	case decisionMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.transcript = append(m.transcript, errorStyle.Render("Error: "+msg.err.Error()))
		} else {
			m.status = fmt.Sprintf("Decision: %s", msg.decision.Outcome)
			m.transcript = append(m.transcript, renderDecision(msg.decision))
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the transcript, the prompt, and the status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("askdocs chat")
	transcript := transcriptStyle.Render(m.viewport.View())
	prompt := promptStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + prompt + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "No questions yet."
	}
	return strings.Join(m.transcript, "\n\n")
}

// askCmd runs one grounding pass off the update loop.
func askCmd(answers driving.AnswerService, query string) tea.Cmd {
	return func() tea.Msg {
		decision, err := answers.Ask(context.Background(), query)
		return decisionMsg{query: query, decision: decision, err: err}
	}
}

func renderDecision(d domain.Decision) string {
	var b strings.Builder
	switch d.Outcome {
	case domain.OutcomeAnswered:
		b.WriteString(answerStyle.Render("Answer: ") + d.Answer)
	case domain.OutcomePartial:
		b.WriteString(partialStyle.Render("Partial answer: ") + d.Answer)
		if d.Caveat != "" {
			b.WriteString("\n" + caveatStyle.Render("Caveat: "+d.Caveat))
		}
	case domain.OutcomeClarify:
		b.WriteString(clarifyStyle.Render("Cannot answer from the corpus."))
		if d.Reason != "" {
			b.WriteString("\nReason: " + d.Reason)
		}
		if d.Missing != "" {
			b.WriteString("\nWhat would help: " + d.Missing)
		}
	}
	if len(d.Citations) > 0 {
		b.WriteString("\n" + citationStyle.Render("Sources:"))
		for _, c := range d.Citations {
			b.WriteString("\n  " + c.String())
		}
	}
	return b.String()
}

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	questionStyle   = lipgloss.NewStyle().Bold(true)
	answerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	partialStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	clarifyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	caveatStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	citationStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
