package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/mouse-blink/agentcli/internal/adapter"
	"github.com/mouse-blink/agentcli/internal/controller"
	rerrors "github.com/mouse-blink/agentcli/internal/errors"
	m "github.com/mouse-blink/agentcli/internal/model"
)

// DefaultMaxSamples is how many lines per file the preview shows.
const DefaultMaxSamples = 5

// TransactionController runs one rename from scan to commit or rollback.
type TransactionController interface {
	Execute(ctx context.Context, symbol m.Symbol) (m.TransactionResult, error)
}

// ControllerOptions configures a TransactionController.
type ControllerOptions struct {
	Root m.Path
	// StateDir holds the cross-process lock. Empty disables it.
	StateDir string
	// AutoConfirm skips the prompt.
	AutoConfirm bool
	MaxSamples  int
	// DurableSnapshots also backs up every file to the BackupStore before
	// it is written, so undo works across sessions.
	DurableSnapshots bool
	Restore          RestorePolicy
}

type transactionController struct {
	fsAdapter adapter.SourceFSAdapter
	scanner   Scanner
	applier   Applier
	store     adapter.BackupStore
	ui        controller.UI
	logger    *slog.Logger
	opts      ControllerOptions
	rollback  *rollbacker

	active atomic.Bool
}

// NewTransactionController wires the engine. store may be nil when neither
// durable snapshots nor the escalate policy are used.
func NewTransactionController(
	fsAdapter adapter.SourceFSAdapter,
	scanner Scanner,
	applier Applier,
	store adapter.BackupStore,
	ui controller.UI,
	logger *slog.Logger,
	opts ControllerOptions,
) TransactionController {
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = DefaultMaxSamples
	}

	return &transactionController{
		fsAdapter: fsAdapter,
		scanner:   scanner,
		applier:   applier,
		store:     store,
		ui:        ui,
		logger:    logger,
		opts:      opts,
		rollback:  newRollbacker(fsAdapter, store, opts.Restore, logger),
	}
}

// Execute implements TransactionController.
func (c *transactionController) Execute(ctx context.Context, symbol m.Symbol) (m.TransactionResult, error) {
	if err := symbol.Validate(); err != nil {
		return m.TransactionResult{Symbol: symbol}, rerrors.New(rerrors.InvalidSymbol, err.Error(), "", nil)
	}

	tx := m.RefactorTransaction{ID: uuid.NewString(), Symbol: symbol}
	logger := c.logger.With("tx", tx.ID)

	if symbol.Kind == m.SymbolPackage {
		result := m.TransactionResult{ID: tx.ID, Symbol: symbol, Outcome: m.OutcomeNotSupported}
		logger.Info("package rename is not supported", "symbol", symbol.String())
		c.ui.DisplayOutcome(result)

		return result, nil
	}

	if !c.active.CompareAndSwap(false, true) {
		return m.TransactionResult{Symbol: symbol}, rerrors.ErrTransactionActive
	}
	defer c.active.Store(false)

	if c.opts.StateDir != "" {
		lock, err := adapter.AcquireLock(c.opts.StateDir)
		if err != nil {
			if errors.Is(err, adapter.ErrLockHeld) {
				return m.TransactionResult{Symbol: symbol}, rerrors.New(rerrors.TransactionActive, "another agentcli process is renaming in this project", "", err)
			}

			return m.TransactionResult{Symbol: symbol}, fmt.Errorf("failed to acquire transaction lock: %w", err)
		}
		defer lock.Release()
	}

	return c.run(ctx, tx, logger)
}

func (c *transactionController) run(ctx context.Context, tx m.RefactorTransaction, logger *slog.Logger) (m.TransactionResult, error) {
	result := m.TransactionResult{ID: tx.ID, Symbol: tx.Symbol}

	c.transition(&tx, m.StateScanning, logger)

	refs, err := c.scanner.Scan(ctx, c.opts.Root, tx.Symbol)
	if err != nil {
		c.transition(&tx, m.StateFailed, logger)
		return result, err
	}

	tx.References = refs

	if refs.Empty() {
		c.transition(&tx, m.StateNoReferences, logger)

		result.Outcome = m.OutcomeNoReferences
		c.ui.DisplayOutcome(result)

		return result, nil
	}

	c.transition(&tx, m.StatePreviewReady, logger)

	if err := c.ui.DisplayPreview(tx, c.opts.MaxSamples); err != nil {
		return result, fmt.Errorf("failed to display preview: %w", err)
	}

	c.transition(&tx, m.StateAwaitingConfirmation, logger)

	if !c.confirmed(tx, logger) {
		c.transition(&tx, m.StateCancelled, logger)

		result.Outcome = m.OutcomeCancelled
		c.ui.DisplayOutcome(result)

		return result, nil
	}

	c.transition(&tx, m.StateApplying, logger)

	buf := NewTransactionBuffer()
	defer buf.Discard()

	renamed, err := c.apply(tx, buf, &result, logger)
	if err != nil {
		c.transition(&tx, m.StateFailed, logger)
		logger.Error("apply failed, rolling back", "error", err, "captured", buf.Len())

		report := c.rollback.rollback(buf, renamed)

		c.transition(&tx, m.StateRolledBack, logger)

		result.Outcome = m.OutcomeRolledBack
		result.Err = err
		result.UnrestoredPaths = report.unrestored
		result.FilesModified = 0
		result.ReferencesReplaced = 0
		result.RenamedFile = nil

		for _, restoreErr := range report.errs {
			logger.Warn("rollback incomplete", "error", restoreErr)
		}

		c.ui.DisplayOutcome(result)

		return result, nil
	}

	c.transition(&tx, m.StateCommitted, logger)

	result.Outcome = m.OutcomeCommitted
	c.ui.DisplayOutcome(result)

	return result, nil
}

func (c *transactionController) confirmed(tx m.RefactorTransaction, logger *slog.Logger) bool {
	if c.opts.AutoConfirm {
		logger.Debug("confirmation skipped")
		return true
	}

	prompt := fmt.Sprintf("Apply %s to %d reference(s) in %d file(s)?",
		tx.Symbol.String(), tx.References.Len(), tx.References.FileCount())

	ok, err := c.ui.Confirm(prompt)
	if err != nil {
		logger.Warn("confirmation failed, treating as no", "error", err)
		return false
	}

	return ok
}

// apply rewrites every file in set order and performs the class file rename
// last. The returned rename is non-nil only when the move happened.
func (c *transactionController) apply(tx m.RefactorTransaction, buf *TransactionBuffer, result *m.TransactionResult, logger *slog.Logger) (*m.Rename, error) {
	for _, file := range tx.References.Files {
		info, err := c.fsAdapter.FileInfo(file.Path)
		if err != nil {
			return nil, rerrors.Apply(file.Path, err)
		}

		content, err := c.fsAdapter.ReadFile(file.Path)
		if err != nil {
			return nil, rerrors.Apply(file.Path, err)
		}

		buf.Capture(file.Path, content, info.Mode().Perm())

		if c.opts.DurableSnapshots && c.store != nil {
			if _, err := c.store.Backup(file.Path); err != nil {
				return nil, rerrors.Backup(file.Path, err)
			}
		}

		updated, replaced := c.applier.Apply(content, tx.Symbol)
		if replaced == 0 {
			logger.Warn("file no longer contains the symbol", "path", file.Path)
			continue
		}

		if err := c.fsAdapter.WriteFile(file.Path, updated, info.Mode().Perm()); err != nil {
			return nil, rerrors.Apply(file.Path, err)
		}

		result.FilesModified++
		result.ReferencesReplaced += len(file.Refs)

		logger.Debug("file applied", "path", file.Path, "references", len(file.Refs), "substitutions", replaced)
		c.ui.DisplayFileApplied(file.Path, len(file.Refs))
	}

	rename, ok := c.applier.DefiningFileRename(tx.References, tx.Symbol)
	if !ok {
		return nil, nil
	}

	if err := c.fsAdapter.Rename(rename.From, rename.To); err != nil {
		return nil, rerrors.Rename(rename.From, err)
	}

	logger.Info("defining file renamed", "from", rename.From, "to", rename.To)
	result.RenamedFile = &rename

	return &rename, nil
}

func (c *transactionController) transition(tx *m.RefactorTransaction, state m.TransactionState, logger *slog.Logger) {
	logger.Debug("transaction state", "from", tx.State, "to", state)
	tx.State = state
}
