//go:build windows

package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// Lock is an exclusive transaction lock held on <stateDir>/transaction.lock.
// Windows has no flock, so ownership is the exclusive creation of the file.
type Lock struct {
	path string
	file *os.File
}

// AcquireLock creates the lock file exclusively. It fails with ErrLockHeld
// when the file already exists.
func AcquireLock(stateDir string) (*Lock, error) {
	if err := os.MkdirAll(stateDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	path := filepath.Join(stateDir, lockFileName)

	// #nosec G304 - path is built from the project state directory
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, ErrLockHeld
		}

		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if _, err := file.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		_ = file.Close()
		_ = os.Remove(path)

		return nil, fmt.Errorf("failed to write PID to lock file: %w", err)
	}

	return &Lock{path: path, file: file}, nil
}

// Release closes and removes the lock file. It is nil-safe.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}

	_ = l.file.Close()
	_ = os.Remove(l.path)
	l.file = nil
}
