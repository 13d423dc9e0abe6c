// Package errors defines the stable error codes surfaced by agentcli.
package errors

import (
	stderrors "errors"
	"fmt"

	m "github.com/mouse-blink/agentcli/internal/model"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ScanFailed indicates a candidate file could not be read during scanning
	ScanFailed ErrorCode = "SCAN_FAILED"
	// ApplyFailed indicates a file could not be read or written while applying
	ApplyFailed ErrorCode = "APPLY_FAILED"
	// RenameFailed indicates the defining file could not be renamed
	RenameFailed ErrorCode = "RENAME_FAILED"
	// RestoreFailed indicates a file could not be put back during rollback
	RestoreFailed ErrorCode = "RESTORE_FAILED"
	// TransactionActive indicates another rename is already in flight
	TransactionActive ErrorCode = "TRANSACTION_ACTIVE"
	// InvalidSymbol indicates the requested names or scope are unusable
	InvalidSymbol ErrorCode = "INVALID_SYMBOL"
	// BackupFailed indicates a durable backup could not be written
	BackupFailed ErrorCode = "BACKUP_FAILED"
	// NotFound indicates a requested file or text does not exist
	NotFound ErrorCode = "NOT_FOUND"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrTransactionActive is returned when a rename starts while another one is running.
var ErrTransactionActive = New(TransactionActive, "another rename transaction is active", "", nil)

// RefactorError carries a code, the file involved (if any) and the cause.
type RefactorError struct {
	Code    ErrorCode
	Message string
	Path    m.Path
	cause   error
}

// New creates a RefactorError.
func New(code ErrorCode, message string, path m.Path, cause error) *RefactorError {
	return &RefactorError{Code: code, Message: message, Path: path, cause: cause}
}

// Error implements the error interface
func (e *RefactorError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}

	if e.cause != nil {
		msg += fmt.Sprintf(": %v", e.cause)
	}

	return msg
}

// Unwrap returns the underlying error
func (e *RefactorError) Unwrap() error {
	return e.cause
}

// Is matches any RefactorError carrying the same code.
func (e *RefactorError) Is(target error) bool {
	var other *RefactorError
	if !stderrors.As(target, &other) {
		return false
	}

	return other.Code == e.Code
}

// CodeOf returns the code of the first RefactorError in err's chain, or
// InternalError when there is none.
func CodeOf(err error) ErrorCode {
	var re *RefactorError
	if stderrors.As(err, &re) {
		return re.Code
	}

	return InternalError
}

// Scan wraps a scanning failure.
func Scan(path m.Path, cause error) *RefactorError {
	return New(ScanFailed, "failed to read candidate file", path, cause)
}

// Apply wraps a failure while mutating a file.
func Apply(path m.Path, cause error) *RefactorError {
	return New(ApplyFailed, "failed to apply rename", path, cause)
}

// Rename wraps a failure while renaming the defining file.
func Rename(path m.Path, cause error) *RefactorError {
	return New(RenameFailed, "failed to rename defining file", path, cause)
}

// Restore wraps a failure while rolling a file back.
func Restore(path m.Path, cause error) *RefactorError {
	return New(RestoreFailed, "failed to restore file", path, cause)
}

// Backup wraps a failure while taking a durable backup.
func Backup(path m.Path, cause error) *RefactorError {
	return New(BackupFailed, "failed to back up file", path, cause)
}
