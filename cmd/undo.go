package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var undoCmd = newUndoCmd()

func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Restore the most recent backup",
		Long: `Restore the file captured by the most recent write, edit or durable
rename snapshot. Each call pops one backup, so repeated calls walk further
back in history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := prepareEditor(cmd); err != nil {
				return err
			}

			entry, ok, err := editor.Undo()
			if err != nil {
				return err
			}

			if !ok && entry.BackupPath != "" {
				ui.DisplayMessage(fmt.Sprintf("Backup %s is no longer on disk; %s was not restored", entry.BackupPath, entry.OriginalPath))
				return nil
			}

			if !ok {
				ui.DisplayMessage("Nothing to undo")
				return nil
			}

			ui.DisplayMessage(fmt.Sprintf("Restored %s from %s", entry.OriginalPath, entry.BackupPath))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(undoCmd)
}
