package domain

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/mouse-blink/agentcli/internal/adapter"
	"github.com/mouse-blink/agentcli/internal/config"
	rerrors "github.com/mouse-blink/agentcli/internal/errors"
	m "github.com/mouse-blink/agentcli/internal/model"
)

// RestorePolicy decides what rollback does when a file cannot be put back.
type RestorePolicy struct {
	// Mode is one of config.RestorePolicyReport, Retry or Escalate.
	Mode       string
	Retries    int
	RetryDelay time.Duration
}

// RestorePolicyFromConfig maps the rollback config section to a policy.
func RestorePolicyFromConfig(cfg *config.Config) RestorePolicy {
	return RestorePolicy{
		Mode:       cfg.Rollback.OnRestoreFailure,
		Retries:    cfg.Rollback.Retries,
		RetryDelay: time.Duration(cfg.Rollback.RetryDelayMs) * time.Millisecond,
	}
}

func (p RestorePolicy) attempts() int {
	if p.Mode != config.RestorePolicyRetry && p.Mode != config.RestorePolicyEscalate || p.Retries <= 0 {
		return 1
	}

	return p.Retries + 1
}

// rollbackReport is what a rollback pass left behind.
type rollbackReport struct {
	unrestored []m.Path
	errs       []error
	// escalated holds backups of originals that could not be put back.
	escalated []m.BackupEntry
}

type rollbacker struct {
	fsAdapter adapter.SourceFSAdapter
	store     adapter.BackupStore
	policy    RestorePolicy
	logger    *slog.Logger
	sleep     func(time.Duration)
}

func newRollbacker(fsAdapter adapter.SourceFSAdapter, store adapter.BackupStore, policy RestorePolicy, logger *slog.Logger) *rollbacker {
	return &rollbacker{
		fsAdapter: fsAdapter,
		store:     store,
		policy:    policy,
		logger:    logger,
		sleep:     time.Sleep,
	}
}

// rollback undoes the defining-file rename (when it happened) and then puts
// every buffered file back. A failing file never stops the others.
func (r *rollbacker) rollback(buf *TransactionBuffer, renamed *m.Rename) rollbackReport {
	var report rollbackReport

	if renamed != nil {
		if err := r.fsAdapter.Rename(renamed.To, renamed.From); err != nil {
			r.logger.Error("failed to undo file rename", "from", renamed.To, "to", renamed.From, "error", err)
			report.unrestored = append(report.unrestored, renamed.To)
			report.errs = append(report.errs, rerrors.Restore(renamed.To, err))
		}
	}

	for _, path := range buf.Paths() {
		content, perm, _ := buf.Original(path)

		err := r.restoreFile(path, content, perm)
		if err == nil {
			r.logger.Debug("file restored", "path", path)
			continue
		}

		r.logger.Error("failed to restore file", "path", path, "error", err)
		report.unrestored = append(report.unrestored, path)
		report.errs = append(report.errs, rerrors.Restore(path, err))

		if r.policy.Mode != config.RestorePolicyEscalate || r.store == nil {
			continue
		}

		entry, saveErr := r.store.Save(path, content)
		if saveErr != nil {
			r.logger.Error("failed to escalate unrestored file", "path", path, "error", saveErr)
			report.errs = append(report.errs, rerrors.Backup(path, saveErr))

			continue
		}

		r.logger.Warn("unrestored original saved for undo", "path", path, "backup", entry.BackupPath)
		report.escalated = append(report.escalated, entry)
	}

	return report
}

func (r *rollbacker) restoreFile(path m.Path, content []byte, perm os.FileMode) error {
	var errs []error

	for attempt := range r.policy.attempts() {
		if attempt > 0 && r.policy.RetryDelay > 0 {
			r.sleep(r.policy.RetryDelay)
		}

		err := r.fsAdapter.WriteFile(path, content, perm)
		if err == nil {
			return nil
		}

		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
