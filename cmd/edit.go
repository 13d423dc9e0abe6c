package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	m "github.com/mouse-blink/agentcli/internal/model"
)

var editCmd = newEditCmd()

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <file> <old> <new>",
		Short: "Replace literal text in one file, backing it up first",
		Long: `Replace every literal occurrence of <old> with <new> in a single file.
The command fails without touching the file when <old> does not occur.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prepareEditor(cmd); err != nil {
				return err
			}

			abs, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			result, err := editor.Edit(m.Path(abs), args[1], args[2])
			if err != nil {
				return err
			}

			ui.DisplayMessage(fmt.Sprintf("Replaced %d occurrence(s) in %s", result.Replacements, result.Path))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(editCmd)
}
