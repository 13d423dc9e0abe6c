package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	m "github.com/mouse-blink/agentcli/internal/model"
)

const (
	backupSuffix = ".backup"
	// treeDirName holds mirrors of originals under the root.
	treeDirName = "tree"
	// absDirName holds mirrors of originals that live outside the root.
	absDirName = "_abs"
)

// BackupStore persists and restores durable file backups.
type BackupStore interface {
	// Backup copies the current bytes of path into the store, records the
	// entry on the undo stack, and prunes that file's backups to the cap.
	Backup(path m.Path) (m.BackupEntry, error)
	// Save stores content as a backup of path without reading the file. It
	// is used when the bytes on disk can no longer be trusted.
	Save(path m.Path, content []byte) (m.BackupEntry, error)
	// RestoreLast pops the undo stack and copies that backup over its
	// original. ok is false when the stack is empty or the backup is gone.
	RestoreLast() (entry m.BackupEntry, ok bool, err error)
	// Restore copies entry back over its original path.
	Restore(entry m.BackupEntry) (bool, error)
	// List returns backups newest first, optionally for one original file.
	List(file *m.Path) ([]m.BackupEntry, error)
}

// LocalBackupStore keeps backups under dir, mirroring each original's
// directory relative to root:
//
//	<dir>/tree/<relDir>/<base>.<timestamp>.backup
//	<dir>/_abs/<absDir>/<base>.<timestamp>.backup
type LocalBackupStore struct {
	fs        SourceFSAdapter
	undo      UndoStack
	logger    *slog.Logger
	root      string
	dir       string
	retention int
	now       func() time.Time

	mu   sync.Mutex
	last time.Time
}

// BackupStoreOption customises a LocalBackupStore.
type BackupStoreOption func(*LocalBackupStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) BackupStoreOption {
	return func(s *LocalBackupStore) {
		s.now = now
	}
}

// NewLocalBackupStore constructs a LocalBackupStore.
func NewLocalBackupStore(
	fsAdapter SourceFSAdapter,
	undo UndoStack,
	logger *slog.Logger,
	root, dir string,
	retention int,
	opts ...BackupStoreOption,
) *LocalBackupStore {
	s := &LocalBackupStore{
		fs:        fsAdapter,
		undo:      undo,
		logger:    logger,
		root:      absOrClean(root),
		dir:       absOrClean(dir),
		retention: retention,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Backup implements BackupStore.
func (s *LocalBackupStore) Backup(path m.Path) (m.BackupEntry, error) {
	original, err := filepath.Abs(string(path))
	if err != nil {
		return m.BackupEntry{}, err
	}

	content, err := s.fs.ReadFile(m.Path(original))
	if err != nil {
		return m.BackupEntry{}, fmt.Errorf("failed to read %s for backup: %w", original, err)
	}

	return s.Save(m.Path(original), content)
}

// Save implements BackupStore.
func (s *LocalBackupStore) Save(path m.Path, content []byte) (m.BackupEntry, error) {
	original, err := filepath.Abs(string(path))
	if err != nil {
		return m.BackupEntry{}, err
	}

	mirror := s.mirrorDir(original)
	if err := s.fs.MkdirAll(m.Path(mirror)); err != nil {
		return m.BackupEntry{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	stamp := s.nextTimestamp()
	backupPath := filepath.Join(mirror, filepath.Base(original)+"."+stamp+backupSuffix)

	if err := s.fs.WriteFile(m.Path(backupPath), content, 0o600); err != nil {
		return m.BackupEntry{}, fmt.Errorf("failed to write backup: %w", err)
	}

	entry := m.BackupEntry{OriginalPath: m.Path(original), BackupPath: m.Path(backupPath), Timestamp: stamp}

	if err := s.undo.Push(entry); err != nil {
		return m.BackupEntry{}, err
	}

	s.logger.Debug("backup created", "original", original, "backup", backupPath)

	if err := s.prune(entry.OriginalPath); err != nil {
		s.logger.Warn("backup pruning failed", "original", original, "error", err)
	}

	return entry, nil
}

// RestoreLast implements BackupStore.
func (s *LocalBackupStore) RestoreLast() (m.BackupEntry, bool, error) {
	entry, ok, err := s.undo.Pop()
	if err != nil || !ok {
		return entry, false, err
	}

	restored, err := s.Restore(entry)

	return entry, restored, err
}

// Restore implements BackupStore.
func (s *LocalBackupStore) Restore(entry m.BackupEntry) (bool, error) {
	content, err := s.fs.ReadFile(entry.BackupPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("backup no longer on disk", "backup", entry.BackupPath)
			return false, nil
		}

		return false, fmt.Errorf("failed to read backup: %w", err)
	}

	perm := os.FileMode(0o644)
	if info, err := s.fs.FileInfo(entry.OriginalPath); err == nil {
		perm = info.Mode().Perm()
	}

	if err := s.fs.MkdirAll(m.Path(filepath.Dir(string(entry.OriginalPath)))); err != nil {
		return false, fmt.Errorf("failed to recreate directory: %w", err)
	}

	if err := s.fs.WriteFile(entry.OriginalPath, content, perm); err != nil {
		return false, fmt.Errorf("failed to restore %s: %w", entry.OriginalPath, err)
	}

	s.logger.Info("backup restored", "original", entry.OriginalPath, "backup", entry.BackupPath)

	return true, nil
}

// List implements BackupStore.
func (s *LocalBackupStore) List(file *m.Path) ([]m.BackupEntry, error) {
	var want m.Path

	if file != nil {
		abs, err := filepath.Abs(string(*file))
		if err != nil {
			return nil, err
		}

		want = m.Path(abs)
	}

	walkRoot := s.dir
	if want != "" {
		walkRoot = s.mirrorDir(string(want))
	}

	if _, err := s.fs.FileInfo(m.Path(walkRoot)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []m.BackupEntry{}, nil
		}

		return nil, err
	}

	entries := []m.BackupEntry{}

	err := s.fs.Walk(m.Path(walkRoot), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if want != "" && path != walkRoot {
				return SkipDir
			}

			return nil
		}

		entry, ok := s.ParseBackupPath(m.Path(path))
		if !ok {
			return nil
		}

		if want != "" && entry.OriginalPath != want {
			return nil
		}

		entries = append(entries, entry)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Timestamp != entries[j].Timestamp {
			return entries[i].Timestamp > entries[j].Timestamp
		}

		return entries[i].OriginalPath < entries[j].OriginalPath
	})

	return entries, nil
}

// ParseBackupPath reconstructs an entry from a backup file path alone.
func (s *LocalBackupStore) ParseBackupPath(backupPath m.Path) (m.BackupEntry, bool) {
	relPath, err := s.fs.RelPath(m.Path(s.dir), backupPath)
	if err != nil {
		return m.BackupEntry{}, false
	}

	rel := string(relPath)
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return m.BackupEntry{}, false
	}

	name := filepath.Base(rel)
	if !strings.HasSuffix(name, backupSuffix) {
		return m.BackupEntry{}, false
	}

	name = strings.TrimSuffix(name, backupSuffix)

	stampLen := len(m.BackupTimestampLayout)
	if len(name) < stampLen+2 || name[len(name)-stampLen-1] != '.' {
		return m.BackupEntry{}, false
	}

	stamp := name[len(name)-stampLen:]
	if _, err := time.Parse(m.BackupTimestampLayout, stamp); err != nil {
		return m.BackupEntry{}, false
	}

	base := name[:len(name)-stampLen-1]

	subtree, relDir, _ := strings.Cut(filepath.Dir(rel), string(filepath.Separator))

	var originalDir m.Path

	switch subtree {
	case treeDirName:
		originalDir = s.fs.JoinPath(s.root, relDir)
	case absDirName:
		originalDir = s.fs.JoinPath(string(filepath.Separator), relDir)
	default:
		return m.BackupEntry{}, false
	}

	return m.BackupEntry{
		OriginalPath: s.fs.JoinPath(string(originalDir), base),
		BackupPath:   backupPath,
		Timestamp:    stamp,
	}, true
}

func (s *LocalBackupStore) prune(original m.Path) error {
	entries, err := s.List(&original)
	if err != nil {
		return err
	}

	if len(entries) <= s.retention {
		return nil
	}

	for _, stale := range entries[s.retention:] {
		if err := s.fs.Remove(stale.BackupPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		s.logger.Debug("backup pruned", "backup", stale.BackupPath)
	}

	return nil
}

// mirrorDir keeps originals under root and outside it in separate
// subtrees, so no project directory name can collide with absDirName.
func (s *LocalBackupStore) mirrorDir(original string) string {
	dir := filepath.Dir(original)

	rel, err := s.fs.RelPath(m.Path(s.root), m.Path(dir))
	if err == nil && rel != ".." && !strings.HasPrefix(string(rel), ".."+string(filepath.Separator)) {
		return string(s.fs.JoinPath(s.dir, treeDirName, string(rel)))
	}

	trimmed := strings.TrimPrefix(dir, filepath.VolumeName(dir))

	return string(s.fs.JoinPath(s.dir, absDirName, trimmed))
}

func absOrClean(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}

	return filepath.Clean(p)
}

// nextTimestamp returns a strictly increasing stamp so sequential backups
// never collide or reorder.
func (s *LocalBackupStore) nextTimestamp() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if !now.After(s.last) {
		now = s.last.Add(time.Nanosecond)
	}

	s.last = now

	return now.Format(m.BackupTimestampLayout)
}
