package cmd

import (
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/agentcli/internal/model"
)

var renameMethodCmd = newRenameMethodCmd()
var classFlag string

func newRenameMethodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename-method <old> <new>",
		Short: "Rename a method at its call and definition sites",
		Long: `Rename every occurrence of a method name that is followed by an opening
parenthesis. With --class only the file named after that class is touched.`,
		Example: `  agentcli rename-method getName getDisplayName
  agentcli rename-method save persist --class UserRepository`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRename(cmd, m.Symbol{
				Kind:    m.SymbolMethod,
				OldName: args[0],
				NewName: args[1],
				Scope:   m.Scope{Class: classFlag},
			})
		},
	}
	cmd.Flags().StringVar(&classFlag, "class", "", "only rename inside the file that defines this class")

	return cmd
}

func init() {
	rootCmd.AddCommand(renameMethodCmd)
}
