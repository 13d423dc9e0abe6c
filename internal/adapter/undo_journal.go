package adapter

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	m "github.com/mouse-blink/agentcli/internal/model"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const undoJournalFile = "undo.db"

// UndoStack is the global LIFO of backups. It does not care which command
// produced an entry.
type UndoStack interface {
	Push(entry m.BackupEntry) error
	// Pop removes and returns the most recent entry. ok is false when empty.
	Pop() (entry m.BackupEntry, ok bool, err error)
	Len() (int, error)
	Close() error
}

// MemoryUndoStack keeps the stack in process memory.
type MemoryUndoStack struct {
	mu      sync.Mutex
	entries []m.BackupEntry
}

// NewMemoryUndoStack returns an empty in-memory stack.
func NewMemoryUndoStack() *MemoryUndoStack {
	return &MemoryUndoStack{}
}

// Push appends entry.
func (s *MemoryUndoStack) Push(entry m.BackupEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)

	return nil
}

// Pop removes the last entry.
func (s *MemoryUndoStack) Pop() (m.BackupEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return m.BackupEntry{}, false, nil
	}

	last := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]

	return last, true, nil
}

// Len returns the stack depth.
func (s *MemoryUndoStack) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries), nil
}

// Close is a no-op.
func (s *MemoryUndoStack) Close() error {
	return nil
}

// SQLiteUndoJournal persists the undo stack in <stateDir>/undo.db so undo
// works across sessions.
type SQLiteUndoJournal struct {
	conn   *sql.DB
	logger *slog.Logger
	path   string
}

// OpenUndoJournal opens or creates the journal under stateDir.
func OpenUndoJournal(stateDir string, logger *slog.Logger) (*SQLiteUndoJournal, error) {
	if err := os.MkdirAll(stateDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	path := filepath.Join(stateDir, undoJournalFile)

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open undo journal: %w", err)
	}

	// One writer at a time keeps Pop's select+delete consistent.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS undo_stack (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			original_path TEXT NOT NULL,
			backup_path TEXT NOT NULL,
			timestamp TEXT NOT NULL
		);
	`
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize undo journal: %w", err)
	}

	logger.Debug("undo journal opened", "path", path)

	return &SQLiteUndoJournal{conn: conn, logger: logger, path: path}, nil
}

// Push appends entry.
func (j *SQLiteUndoJournal) Push(entry m.BackupEntry) error {
	_, err := j.conn.Exec(
		`INSERT INTO undo_stack (original_path, backup_path, timestamp) VALUES (?, ?, ?)`,
		string(entry.OriginalPath), string(entry.BackupPath), entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to push undo entry: %w", err)
	}

	return nil
}

// Pop removes and returns the most recently pushed entry.
func (j *SQLiteUndoJournal) Pop() (m.BackupEntry, bool, error) {
	tx, err := j.conn.Begin()
	if err != nil {
		return m.BackupEntry{}, false, fmt.Errorf("failed to begin undo pop: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	var (
		seq                    int64
		original, backup, when string
	)

	row := tx.QueryRow(`SELECT seq, original_path, backup_path, timestamp FROM undo_stack ORDER BY seq DESC LIMIT 1`)
	if err := row.Scan(&seq, &original, &backup, &when); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return m.BackupEntry{}, false, nil
		}

		return m.BackupEntry{}, false, fmt.Errorf("failed to read undo entry: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM undo_stack WHERE seq = ?`, seq); err != nil {
		return m.BackupEntry{}, false, fmt.Errorf("failed to pop undo entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return m.BackupEntry{}, false, fmt.Errorf("failed to commit undo pop: %w", err)
	}

	return m.BackupEntry{OriginalPath: m.Path(original), BackupPath: m.Path(backup), Timestamp: when}, true, nil
}

// Len returns the number of stored entries.
func (j *SQLiteUndoJournal) Len() (int, error) {
	var n int
	if err := j.conn.QueryRow(`SELECT COUNT(*) FROM undo_stack`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count undo entries: %w", err)
	}

	return n, nil
}

// Close closes the database connection.
func (j *SQLiteUndoJournal) Close() error {
	if j.conn != nil {
		return j.conn.Close()
	}

	return nil
}
