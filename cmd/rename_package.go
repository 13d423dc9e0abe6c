package cmd

import (
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/agentcli/internal/model"
)

var renamePackageCmd = newRenamePackageCmd()

func newRenamePackageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename-package <old.pkg> <new.pkg>",
		Short: "Rename a package (not yet supported)",
		Long: `Package renames are accepted and validated but not yet performed.
The command reports that the operation is unsupported and changes nothing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRename(cmd, m.Symbol{
				Kind:    m.SymbolPackage,
				OldName: args[0],
				NewName: args[1],
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(renamePackageCmd)
}
