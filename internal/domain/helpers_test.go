package domain

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mouse-blink/agentcli/internal/adapter"
	m "github.com/mouse-blink/agentcli/internal/model"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}

	return string(data)
}

// faultyFS wraps the local adapter and lets tests inject failures per call.
type faultyFS struct {
	adapter.SourceFSAdapter

	mu sync.Mutex
	// writeHook is called before every WriteFile with the 1-based call
	// number for that path. A non-nil error aborts the write.
	writeHook  func(path m.Path, call int) error
	readErr    map[m.Path]error
	renameErr  error
	writeCalls map[m.Path]int
}

func newFaultyFS() *faultyFS {
	return &faultyFS{
		SourceFSAdapter: adapter.NewLocalSourceFSAdapter(),
		readErr:         map[m.Path]error{},
		writeCalls:      map[m.Path]int{},
	}
}

func (f *faultyFS) ReadFile(path m.Path) ([]byte, error) {
	f.mu.Lock()
	err := f.readErr[path]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return f.SourceFSAdapter.ReadFile(path)
}

func (f *faultyFS) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	f.mu.Lock()
	f.writeCalls[path]++
	call := f.writeCalls[path]
	hook := f.writeHook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(path, call); err != nil {
			return err
		}
	}

	return f.SourceFSAdapter.WriteFile(path, content, perm)
}

func (f *faultyFS) Rename(from, to m.Path) error {
	if f.renameErr != nil {
		return f.renameErr
	}

	return f.SourceFSAdapter.Rename(from, to)
}

func (f *faultyFS) writes(path m.Path) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.writeCalls[path]
}
