package model

// TransactionState is the lifecycle state of a RefactorTransaction.
type TransactionState string

const (
	StateScanning             TransactionState = "SCANNING"
	StateNoReferences         TransactionState = "NO_REFERENCES"
	StatePreviewReady         TransactionState = "PREVIEW_READY"
	StateAwaitingConfirmation TransactionState = "AWAITING_CONFIRMATION"
	StateApplying             TransactionState = "APPLYING"
	StateCommitted            TransactionState = "COMMITTED"
	StateRolledBack           TransactionState = "ROLLED_BACK"
	StateCancelled            TransactionState = "CANCELLED"
	StateFailed               TransactionState = "FAILED"
)

// IsTerminal reports whether no further transition is possible from s.
// FAILED is terminal only when rollback could not run at all.
func (s TransactionState) IsTerminal() bool {
	switch s {
	case StateNoReferences, StateCommitted, StateRolledBack, StateCancelled, StateFailed:
		return true
	default:
		return false
	}
}

// RefactorTransaction is one scan, preview, confirm, apply cycle.
type RefactorTransaction struct {
	ID         string
	Symbol     Symbol
	References ReferenceSet
	State      TransactionState
}

// Outcome is what a caller sees once a transaction ends.
type Outcome string

const (
	OutcomeCommitted    Outcome = "COMMITTED"
	OutcomeCancelled    Outcome = "CANCELLED"
	OutcomeNoReferences Outcome = "NO_REFERENCES"
	OutcomeRolledBack   Outcome = "ROLLED_BACK"
	OutcomeNotSupported Outcome = "NOT_SUPPORTED"
)

// TransactionResult summarises a finished transaction.
type TransactionResult struct {
	ID                 string
	Symbol             Symbol
	Outcome            Outcome
	FilesModified      int
	ReferencesReplaced int
	RenamedFile        *Rename
	// Err is the error that triggered a rollback.
	Err error
	// UnrestoredPaths lists files rollback could not put back.
	UnrestoredPaths []Path
}

// Clean reports whether a rolled-back transaction left no net change.
func (r TransactionResult) Clean() bool {
	return len(r.UnrestoredPaths) == 0
}
