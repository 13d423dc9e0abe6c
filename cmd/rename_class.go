package cmd

import (
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/agentcli/internal/model"
)

var renameClassCmd = newRenameClassCmd()

func newRenameClassCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename-class <Old> <New>",
		Short: "Rename a class across the tree and its defining file",
		Long: `Rename every whole-word occurrence of a class name across the project.
The file whose name matches the old class (for example Foo.java) is renamed
to match the new class once every file has been rewritten.`,
		Example: `  agentcli rename-class UserService AccountService
  agentcli rename-class Foo Baz --yes`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRename(cmd, m.Symbol{
				Kind:    m.SymbolClass,
				OldName: args[0],
				NewName: args[1],
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(renameClassCmd)
}
