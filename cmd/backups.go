package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	m "github.com/mouse-blink/agentcli/internal/model"
)

var backupsCmd = newBackupsCmd()

func newBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backups [file]",
		Short: "List stored backups, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prepareEditor(cmd); err != nil {
				return err
			}

			var file *m.Path

			if len(args) == 1 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}

				path := m.Path(abs)
				file = &path
			}

			entries, err := editor.Backups(file)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				ui.DisplayMessage("No backups found")
				return nil
			}

			ui.DisplayBackups(entries)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(backupsCmd)
}
