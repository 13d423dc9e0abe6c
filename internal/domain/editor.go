package domain

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mouse-blink/agentcli/internal/adapter"
	rerrors "github.com/mouse-blink/agentcli/internal/errors"
	m "github.com/mouse-blink/agentcli/internal/model"
)

const defaultFilePerm os.FileMode = 0o644

// EditResult describes one single-file write or edit.
type EditResult struct {
	Path m.Path
	// Backup is nil when the file did not exist before a write.
	Backup       *m.BackupEntry
	Replacements int
}

// Editor performs single-file changes that are always backed up first, plus
// the undo and listing operations over the same store.
type Editor interface {
	Write(path m.Path, content []byte) (EditResult, error)
	Edit(path m.Path, old, replacement string) (EditResult, error)
	Undo() (m.BackupEntry, bool, error)
	Backups(file *m.Path) ([]m.BackupEntry, error)
}

type editor struct {
	fsAdapter adapter.SourceFSAdapter
	store     adapter.BackupStore
	logger    *slog.Logger
}

// NewEditor builds an Editor on top of store.
func NewEditor(fsAdapter adapter.SourceFSAdapter, store adapter.BackupStore, logger *slog.Logger) Editor {
	return &editor{fsAdapter: fsAdapter, store: store, logger: logger}
}

// Write replaces path with content, backing up the current file if present.
func (e *editor) Write(path m.Path, content []byte) (EditResult, error) {
	result := EditResult{Path: path}
	perm := defaultFilePerm

	info, err := e.fsAdapter.FileInfo(path)

	switch {
	case err == nil:
		if info.IsDir() {
			return result, rerrors.New(rerrors.InvalidSymbol, "path is a directory", path, nil)
		}

		perm = info.Mode().Perm()

		entry, err := e.store.Backup(path)
		if err != nil {
			return result, rerrors.Backup(path, err)
		}

		result.Backup = &entry
	case errors.Is(err, fs.ErrNotExist):
		if err := e.fsAdapter.MkdirAll(m.Path(filepath.Dir(string(path)))); err != nil {
			return result, rerrors.Apply(path, err)
		}
	default:
		return result, rerrors.Apply(path, err)
	}

	if err := e.fsAdapter.WriteFile(path, content, perm); err != nil {
		return result, rerrors.Apply(path, err)
	}

	e.logger.Info("file written", "path", path, "bytes", len(content), "backup", result.Backup != nil)

	return result, nil
}

// Edit replaces every literal occurrence of old in path.
func (e *editor) Edit(path m.Path, old, replacement string) (EditResult, error) {
	result := EditResult{Path: path}

	if old == "" {
		return result, rerrors.New(rerrors.InvalidSymbol, "text to replace must not be empty", path, nil)
	}

	info, err := e.fsAdapter.FileInfo(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, rerrors.New(rerrors.NotFound, "file does not exist", path, err)
		}

		return result, rerrors.Apply(path, err)
	}

	content, err := e.fsAdapter.ReadFile(path)
	if err != nil {
		return result, rerrors.Apply(path, err)
	}

	count := bytes.Count(content, []byte(old))
	if count == 0 {
		return result, rerrors.New(rerrors.NotFound, "text not found", path, nil)
	}

	entry, err := e.store.Save(path, content)
	if err != nil {
		return result, rerrors.Backup(path, err)
	}

	result.Backup = &entry

	updated := bytes.ReplaceAll(content, []byte(old), []byte(replacement))
	if err := e.fsAdapter.WriteFile(path, updated, info.Mode().Perm()); err != nil {
		return result, rerrors.Apply(path, err)
	}

	result.Replacements = count
	e.logger.Info("file edited", "path", path, "replacements", count)

	return result, nil
}

// Undo restores the most recent backup from any operation.
func (e *editor) Undo() (m.BackupEntry, bool, error) {
	entry, ok, err := e.store.RestoreLast()
	if err != nil {
		return entry, false, rerrors.Restore(entry.OriginalPath, err)
	}

	return entry, ok, nil
}

// Backups lists stored backups newest first.
func (e *editor) Backups(file *m.Path) ([]m.BackupEntry, error) {
	return e.store.List(file)
}
