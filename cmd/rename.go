package cmd

import (
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/agentcli/internal/model"
)

// executeRename runs one transaction and records its exit code.
func executeRename(cmd *cobra.Command, symbol m.Symbol) error {
	needsStore := symbol.Kind != m.SymbolPackage

	if _, err := prepareRename(cmd, needsStore); err != nil {
		return err
	}

	logger.Debug("rename requested", "symbol", symbol.String())

	result, err := txController.Execute(cmd.Context(), symbol)
	if err != nil {
		return err
	}

	exitCode = ExitCode(result.Outcome)

	return nil
}
