//go:build !windows

package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// Lock is an exclusive, cross-process transaction lock held on
// <stateDir>/transaction.lock.
type Lock struct {
	path string
	file *os.File
}

// AcquireLock takes the transaction lock without blocking. It fails with
// ErrLockHeld when another process owns it.
func AcquireLock(stateDir string) (*Lock, error) {
	if err := os.MkdirAll(stateDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	path := filepath.Join(stateDir, lockFileName)

	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		lock, err := tryLock(path)
		if !errors.Is(err, errLockFileReplaced) {
			return lock, err
		}
	}

	return nil, fmt.Errorf("failed to lock %s: lock file keeps being replaced", path)
}

// errLockFileReplaced means the path no longer names the inode we locked.
var errLockFileReplaced = errors.New("lock file replaced")

const maxLockAttempts = 3

func tryLock(path string) (*Lock, error) {
	// #nosec G304 - path is built from the project state directory
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = file.Close()

		// #nosec G304 - same path as above
		if content, readErr := os.ReadFile(path); readErr == nil && len(content) > 0 {
			return nil, fmt.Errorf("%w (PID %s)", ErrLockHeld, strings.TrimSpace(string(content)))
		}

		return nil, ErrLockHeld
	}

	unlock := func() {
		_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		_ = file.Close()
	}

	// The file may have been removed and recreated between open and flock.
	held, err := file.Stat()
	if err != nil {
		unlock()
		return nil, fmt.Errorf("failed to stat lock file: %w", err)
	}

	current, err := os.Stat(path)
	if err != nil || !os.SameFile(held, current) {
		unlock()
		return nil, errLockFileReplaced
	}

	if err := file.Truncate(0); err != nil {
		unlock()
		return nil, fmt.Errorf("failed to truncate lock file: %w", err)
	}

	if _, err := file.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0); err != nil {
		unlock()
		return nil, fmt.Errorf("failed to write PID to lock file: %w", err)
	}

	return &Lock{path: path, file: file}, nil
}

// Release clears the PID and drops the lock. The file itself stays so every
// process always locks the same inode. It is nil-safe.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}

	_ = l.file.Truncate(0)
	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	_ = l.file.Close()
	l.file = nil
}
