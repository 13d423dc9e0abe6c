package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mouse-blink/agentcli/internal/config"
)

var configCmd = newConfigCmd()
var forceFlag bool

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the project configuration",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to .agentcli/config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			root, err := resolveRoot()
			if err != nil {
				return err
			}

			target := filepath.Join(config.StateDir(root), "config.yaml")

			_, err = os.Stat(target)
			if err == nil && !forceFlag {
				return fmt.Errorf("%s already exists (use --force to overwrite)", target)
			}

			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to stat %s: %w", target, err)
			}

			path, err := config.DefaultConfig().Save(root)
			if err != nil {
				return err
			}

			ui.DisplayMessage("Wrote " + path)

			return nil
		},
	}
	cmd.Flags().BoolVar(&forceFlag, "force", false, "overwrite an existing config file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(s.cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}

			ui.DisplayMessage(string(data))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
}
