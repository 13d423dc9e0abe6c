package domain

import (
	"os"

	m "github.com/mouse-blink/agentcli/internal/model"
)

type capturedFile struct {
	content []byte
	perm    os.FileMode
}

// TransactionBuffer holds the pre-mutation bytes of every file a single apply
// pass has touched. A path must be captured before its file is overwritten.
type TransactionBuffer struct {
	files map[m.Path]capturedFile
	order []m.Path
}

// NewTransactionBuffer returns an empty buffer.
func NewTransactionBuffer() *TransactionBuffer {
	return &TransactionBuffer{files: make(map[m.Path]capturedFile)}
}

// Capture records the original content of path. Later captures of the same
// path are ignored so the first snapshot stays authoritative.
func (b *TransactionBuffer) Capture(path m.Path, content []byte, perm os.FileMode) {
	if _, ok := b.files[path]; ok {
		return
	}

	snapshot := make([]byte, len(content))
	copy(snapshot, content)

	b.files[path] = capturedFile{content: snapshot, perm: perm}
	b.order = append(b.order, path)
}

// Original returns the captured content and permissions of path.
func (b *TransactionBuffer) Original(path m.Path) ([]byte, os.FileMode, bool) {
	f, ok := b.files[path]
	return f.content, f.perm, ok
}

// Paths returns captured paths in capture order.
func (b *TransactionBuffer) Paths() []m.Path {
	return append([]m.Path(nil), b.order...)
}

// Len returns the number of captured files.
func (b *TransactionBuffer) Len() int {
	return len(b.order)
}

// Discard drops every snapshot. The buffer must not be reused afterwards.
func (b *TransactionBuffer) Discard() {
	b.files = nil
	b.order = nil
}
