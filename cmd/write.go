package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	m "github.com/mouse-blink/agentcli/internal/model"
)

var writeCmd = newWriteCmd()

func newWriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write <file>",
		Short: "Replace a file with stdin, backing it up first",
		Example: `  generate-config | agentcli write config/app.properties
  agentcli undo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prepareEditor(cmd); err != nil {
				return err
			}

			abs, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			content, err := readAll(cmd.InOrStdin())
			if err != nil {
				return err
			}

			result, err := editor.Write(m.Path(abs), content)
			if err != nil {
				return err
			}

			msg := fmt.Sprintf("Wrote %d byte(s) to %s", len(content), result.Path)
			if result.Backup != nil {
				msg += fmt.Sprintf(" (backup %s)", result.Backup.BackupPath)
			}

			ui.DisplayMessage(msg)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(writeCmd)
}
