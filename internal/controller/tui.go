package controller

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/agentcli/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sampleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	previewBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)
)

// TUI implements UI with lipgloss styling and a Bubble Tea confirm prompt.
type TUI struct {
	input     io.Reader
	output    io.Writer
	errOutput io.Writer
	// programOptions lets tests run the prompt without a terminal.
	programOptions []tea.ProgramOption
}

// NewTUI creates a new TUI. Errors go to errOutput.
func NewTUI(input io.Reader, output, errOutput io.Writer) *TUI {
	return &TUI{input: input, output: output, errOutput: errOutput}
}

// DisplayPreview renders the grouped references inside a box.
func (t *TUI) DisplayPreview(tx m.RefactorTransaction, maxSamples int) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(previewHeadline(tx)))
	b.WriteString("\n")

	for _, file := range tx.References.Files {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s  %s\n",
			countStyle.Render(fmt.Sprintf("%3d", len(file.Refs))),
			pathStyle.Render(file.Path.String()),
		))

		lines, more := sampleLines(file, maxSamples)
		for _, line := range lines {
			b.WriteString("     " + sampleStyle.Render(line) + "\n")
		}

		if more > 0 {
			b.WriteString("     " + mutedStyle.Render(fmt.Sprintf("... and %d more", more)) + "\n")
		}
	}

	_, err := fmt.Fprintln(t.output, previewBoxStyle.Render(strings.TrimRight(b.String(), "\n")))

	return err
}

// Confirm runs a small Bubble Tea program that waits for y or n.
func (t *TUI) Confirm(prompt string) (bool, error) {
	options := append([]tea.ProgramOption{tea.WithInput(t.input), tea.WithOutput(t.output)}, t.programOptions...)

	final, err := tea.NewProgram(newConfirmModel(prompt), options...).Run()
	if err != nil {
		return false, fmt.Errorf("failed to run confirmation prompt: %w", err)
	}

	model, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected confirmation model %T", final)
	}

	return model.confirmed, nil
}

// DisplayFileApplied prints one styled progress line.
func (t *TUI) DisplayFileApplied(path m.Path, references int) {
	_, _ = fmt.Fprintf(t.output, "%s %s %s\n",
		successStyle.Render("✓"),
		pathStyle.Render(path.String()),
		mutedStyle.Render(fmt.Sprintf("(%d)", references)),
	)
}

// DisplayOutcome prints the outcome headline in the outcome's colour.
func (t *TUI) DisplayOutcome(result m.TransactionResult) {
	style := warnStyle

	switch result.Outcome {
	case m.OutcomeCommitted:
		style = successStyle
	case m.OutcomeRolledBack:
		style = failStyle
	}

	_, _ = fmt.Fprintln(t.output, style.Render(outcomeHeadline(result)))

	for _, line := range outcomeDetails(result) {
		_, _ = fmt.Fprintln(t.output, mutedStyle.Render(line))
	}
}

// DisplayBackups prints the backup table.
func (t *TUI) DisplayBackups(entries []m.BackupEntry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(t.output, mutedStyle.Render("No backups found"))
		return
	}

	_, _ = fmt.Fprint(t.output, renderBackupsTable(entries))
}

// DisplayMessage prints msg.
func (t *TUI) DisplayMessage(msg string) {
	_, _ = fmt.Fprintln(t.output, msg)
}

// DisplayError prints err in red on the error stream.
func (t *TUI) DisplayError(err error) {
	_, _ = fmt.Fprintln(t.errOutput, failStyle.Render("error: "+err.Error()))
}
