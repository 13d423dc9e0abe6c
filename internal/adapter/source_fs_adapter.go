// Package adapter contains filesystem and persistence adapters for the agentcli CLI.
package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	m "github.com/mouse-blink/agentcli/internal/model"
)

// SkipDir tells Walk to skip the directory passed to the callback.
var SkipDir = filepath.SkipDir

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning and rewriting user trees. It intentionally hides direct
// `os` access so the rename logic can be tested with injected failures.
//
//nolint:interfacebloat // A richer interface keeps domain logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Walk traverses root in lexical order, calling fn for every entry.
	Walk(root m.Path, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile replaces the file at path. Implementations must not leave a
	// partially written file behind.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// FileInfo returns metadata for a path so the domain can check existence or
	// distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// Rename moves a file. It fails if the destination already exists.
	Rename(from, to m.Path) error

	// Remove deletes a single file.
	Remove(path m.Path) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path m.Path) error

	// FindProjectRoot walks up from startPath to the nearest directory holding
	// a .agentcli or .git entry. It returns startPath when none is found.
	FindProjectRoot(startPath m.Path) (m.Path, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// ErrDestinationExists is returned by Rename when the target is already present.
var ErrDestinationExists = errors.New("destination already exists")

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the domain.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk iterates over everything under root.
func (a *LocalSourceFSAdapter) Walk(root m.Path, fn FilepathWalkFunc) error {
	return filepath.Walk(string(root), filepath.WalkFunc(fn))
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	// #nosec G304 - path comes from walking the user's own tree
	return os.ReadFile(string(path))
}

// WriteFile writes content to a sibling temp file and renames it over path,
// so readers see either the old or the new bytes.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	target := string(path)

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".agentcli-*")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()

		return err
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()

		return err
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return err
	}

	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return err
	}

	return nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// Rename moves from to to, refusing to overwrite an existing file.
func (a *LocalSourceFSAdapter) Rename(from, to m.Path) error {
	if _, err := os.Lstat(string(to)); err == nil {
		return fmt.Errorf("rename %s -> %s: %w", from, to, ErrDestinationExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return os.Rename(string(from), string(to))
}

// Remove deletes a file.
func (a *LocalSourceFSAdapter) Remove(path m.Path) error {
	return os.Remove(string(path))
}

// MkdirAll creates path with parents.
func (a *LocalSourceFSAdapter) MkdirAll(path m.Path) error {
	return os.MkdirAll(string(path), 0o750)
}

// FindProjectRoot searches for a .agentcli or .git entry walking up the directory tree.
func (a *LocalSourceFSAdapter) FindProjectRoot(startPath m.Path) (m.Path, error) {
	start, err := filepath.Abs(string(startPath))
	if err != nil {
		return "", err
	}

	dir := start

	for {
		for _, marker := range []string{".agentcli", ".git"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return m.Path(dir), nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return m.Path(start), nil
		}

		dir = parent
	}
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
