package adapter

import "errors"

const lockFileName = "transaction.lock"

// ErrLockHeld means another agentcli process is running a transaction in the
// same project.
var ErrLockHeld = errors.New("another transaction holds the project lock")
