package cmd

import (
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/agentcli/internal/model"
)

var renameVariableCmd = newRenameVariableCmd()
var scopeFlag string

func newRenameVariableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename-variable <old> <new>",
		Short: "Rename a variable, optionally within a single file",
		Example: `  agentcli rename-variable count total
  agentcli rename-variable tmp buffer --scope src/Parser.java`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRename(cmd, m.Symbol{
				Kind:    m.SymbolVariable,
				OldName: args[0],
				NewName: args[1],
				Scope:   m.Scope{File: m.Path(scopeFlag)},
			})
		},
	}
	cmd.Flags().StringVar(&scopeFlag, "scope", "", "only rename inside this file (relative to the project root)")

	return cmd
}

func init() {
	rootCmd.AddCommand(renameVariableCmd)
}
