// Package controller provides the console adapters that show rename previews,
// ask for confirmation, and report progress and outcomes.
package controller

import (
	"io"
	"os"

	m "github.com/mouse-blink/agentcli/internal/model"
	"github.com/spf13/cobra"
)

// UI is everything the rename engine needs from the console.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	// DisplayPreview renders the reference set grouped by file with at most
	// maxSamples sample lines per file.
	DisplayPreview(tx m.RefactorTransaction, maxSamples int) error
	// Confirm blocks for a yes/no answer.
	Confirm(prompt string) (bool, error)
	// DisplayFileApplied streams per-file progress while applying.
	DisplayFileApplied(path m.Path, references int)
	// DisplayOutcome prints the final line for a finished transaction.
	DisplayOutcome(result m.TransactionResult)
	DisplayBackups(entries []m.BackupEntry)
	DisplayMessage(msg string)
	DisplayError(err error)
}

// NewUI returns a TUI when attached to a terminal and a SimpleUI otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is a character device.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	info, err := file.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
