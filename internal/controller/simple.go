package controller

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	m "github.com/mouse-blink/agentcli/internal/model"
	"github.com/spf13/cobra"
)

// SimpleUI implements UI with plain text on the command's output streams.
type SimpleUI struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayPreview prints a summary table and sample lines per file.
func (s *SimpleUI) DisplayPreview(tx m.RefactorTransaction, maxSamples int) error {
	s.printf("%s\n\n", previewHeadline(tx))
	s.printf("%s\n", renderSummaryTable(tx))

	for _, file := range tx.References.Files {
		s.printf("%s (%d)\n", file.Path, len(file.Refs))

		lines, more := sampleLines(file, maxSamples)
		for _, line := range lines {
			s.printf("  %s\n", line)
		}

		if more > 0 {
			s.printf("  ... and %d more\n", more)
		}
	}

	s.printf("\n")

	return nil
}

// Confirm reads one line from the command's input.
func (s *SimpleUI) Confirm(prompt string) (bool, error) {
	if s.reader == nil {
		s.reader = bufio.NewReader(s.cmd.InOrStdin())
	}

	s.printf("%s [y/N]: ", prompt)

	line, err := s.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	return isAffirmative(strings.TrimSpace(line)), nil
}

// DisplayFileApplied prints one progress line.
func (s *SimpleUI) DisplayFileApplied(path m.Path, references int) {
	s.printf("applied %s (%d reference(s))\n", path, references)
}

// DisplayOutcome prints the outcome headline and details.
func (s *SimpleUI) DisplayOutcome(result m.TransactionResult) {
	s.printf("%s\n", outcomeHeadline(result))

	for _, line := range outcomeDetails(result) {
		s.printf("%s\n", line)
	}
}

// DisplayBackups prints a table of backups.
func (s *SimpleUI) DisplayBackups(entries []m.BackupEntry) {
	if len(entries) == 0 {
		s.printf("No backups found\n")
		return
	}

	s.printf("%s", renderBackupsTable(entries))
}

// DisplayMessage prints msg as a line.
func (s *SimpleUI) DisplayMessage(msg string) {
	s.printf("%s\n", msg)
}

// DisplayError prints err to the error stream.
func (s *SimpleUI) DisplayError(err error) {
	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), "error: %v\n", err)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
