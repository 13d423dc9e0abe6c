// Package cmd provides the root command and CLI setup for agentcli.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mouse-blink/agentcli/internal/adapter"
	"github.com/mouse-blink/agentcli/internal/config"
	"github.com/mouse-blink/agentcli/internal/controller"
	"github.com/mouse-blink/agentcli/internal/domain"
	"github.com/mouse-blink/agentcli/internal/logging"
	m "github.com/mouse-blink/agentcli/internal/model"
	"github.com/spf13/cobra"
)

// Exit codes for the distinct transaction outcomes.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitCancelled    = 2
	ExitNoReferences = 3
	ExitNotSupported = 4
)

var fsAdapter adapter.SourceFSAdapter
var ui controller.UI
var logger *slog.Logger
var txController domain.TransactionController
var editor domain.Editor

// closers run once the command has finished, whether it failed or not.
var closers []func()

// exitCode is set by commands that finish with an outcome.
var exitCode = ExitOK

var rootFlag string
var yesFlag bool
var configFlag string
var verboseFlag int
var quietFlag bool

func init() {
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	logger = logging.NewDiscardLogger()
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agentcli",
		Short: "Rename symbols safely across a source tree",
		Long: `agentcli renames a class, method or variable across a whole source tree in
one transaction. It previews every matching line, asks for confirmation,
and rolls every file back if any write fails.

Matching is lexical and whole-word: occurrences inside comments and string
literals are renamed too.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&rootFlag, "root", "", "project root (default: nearest directory with .agentcli or .git)")
	cmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "apply without asking for confirmation")
	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default: <root>/.agentcli/config.yaml)")
	cmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	cmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "only log errors")

	return cmd
}

// Execute runs the root command and exits with the outcome's code.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(run(rootCmd))
}

func run(cmd *cobra.Command) int {
	exitCode = ExitOK
	defer cleanup()

	if err := cmd.Execute(); err != nil {
		ui.DisplayError(err)
		return ExitFailure
	}

	return exitCode
}

func cleanup() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}

	closers = nil
}

// ExitCode maps a transaction outcome to the process exit code.
func ExitCode(outcome m.Outcome) int {
	switch outcome {
	case m.OutcomeCommitted:
		return ExitOK
	case m.OutcomeCancelled:
		return ExitCancelled
	case m.OutcomeNoReferences:
		return ExitNoReferences
	case m.OutcomeNotSupported:
		return ExitNotSupported
	default:
		return ExitFailure
	}
}

// session is the per-invocation view of the project.
type session struct {
	root string
	cfg  *config.Config
}

// resolveRoot returns the absolute project root.
func resolveRoot() (string, error) {
	if rootFlag != "" {
		return filepath.Abs(rootFlag)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	root, err := fsAdapter.FindProjectRoot(m.Path(cwd))
	if err != nil {
		return "", fmt.Errorf("failed to find project root: %w", err)
	}

	return string(root), nil
}

// loadSession resolves the root, loads config and builds the logger.
func loadSession(cmd *cobra.Command) (*session, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(root, configFlag)
	if err != nil {
		return nil, err
	}

	level, ok := logging.LevelFromVerbosity(verboseFlag, quietFlag)
	if !ok {
		level = logging.LevelFromString(cfg.Logging.Level)
	}

	logger = logging.New(cmd.ErrOrStderr(), logging.Format(cfg.Logging.Format), level)
	logger.Debug("session loaded", "root", root, "config", configFlag)

	return &session{root: root, cfg: cfg}, nil
}

// openBackupStore opens the persistent undo journal and the store over it.
func openBackupStore(s *session) (adapter.BackupStore, error) {
	journal, err := adapter.OpenUndoJournal(config.StateDir(s.root), logger)
	if err != nil {
		return nil, err
	}

	closers = append(closers, func() { _ = journal.Close() })

	return adapter.NewLocalBackupStore(
		fsAdapter,
		journal,
		logger,
		s.root,
		s.cfg.BackupsDir(s.root),
		s.cfg.Backups.Retention,
	), nil
}

// prepareRename wires the transaction controller unless one was injected.
func prepareRename(cmd *cobra.Command, needsStore bool) (*session, error) {
	s, err := loadSession(cmd)
	if err != nil {
		return nil, err
	}

	if txController != nil {
		return s, nil
	}

	var store adapter.BackupStore

	if needsStore && (s.cfg.Transaction.DurableSnapshots || s.cfg.Rollback.OnRestoreFailure == config.RestorePolicyEscalate) {
		store, err = openBackupStore(s)
		if err != nil {
			return nil, err
		}
	}

	scanner := domain.NewScanner(fsAdapter, logger, domain.ScanOptions{
		ExcludeDirs: s.cfg.Scan.ExcludeDirs,
		MaxFileSize: s.cfg.Scan.MaxFileSizeBytes,
		Workers:     s.cfg.Scan.Workers,
	})

	ctrl := domain.NewTransactionController(
		fsAdapter,
		scanner,
		domain.NewApplier(),
		store,
		ui,
		logger,
		domain.ControllerOptions{
			Root:             m.Path(s.root),
			StateDir:         config.StateDir(s.root),
			AutoConfirm:      yesFlag,
			MaxSamples:       s.cfg.Preview.MaxSamples,
			DurableSnapshots: s.cfg.Transaction.DurableSnapshots,
			Restore:          domain.RestorePolicyFromConfig(s.cfg),
		},
	)

	closers = append(closers, func() { txController = nil })
	txController = ctrl

	return s, nil
}

// prepareEditor wires the single-file editor unless one was injected.
func prepareEditor(cmd *cobra.Command) error {
	s, err := loadSession(cmd)
	if err != nil {
		return err
	}

	if editor != nil {
		return nil
	}

	store, err := openBackupStore(s)
	if err != nil {
		return err
	}

	closers = append(closers, func() { editor = nil })
	editor = domain.NewEditor(fsAdapter, store, logger)

	return nil
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return data, nil
}
