// Package mocks provides testify mocks for the controller package.
package mocks

import (
	"testing"

	m "github.com/mouse-blink/agentcli/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockUI is a testify mock of controller.UI.
type MockUI struct {
	mock.Mock
}

// NewMockUI creates a MockUI and asserts its expectations on cleanup.
func NewMockUI(t *testing.T) *MockUI {
	ui := &MockUI{}
	ui.Test(t)
	t.Cleanup(func() { ui.AssertExpectations(t) })

	return ui
}

func (u *MockUI) DisplayPreview(tx m.RefactorTransaction, maxSamples int) error {
	args := u.Called(tx, maxSamples)
	return args.Error(0)
}

func (u *MockUI) Confirm(prompt string) (bool, error) {
	args := u.Called(prompt)
	return args.Bool(0), args.Error(1)
}

func (u *MockUI) DisplayFileApplied(path m.Path, references int) {
	u.Called(path, references)
}

func (u *MockUI) DisplayOutcome(result m.TransactionResult) {
	u.Called(result)
}

func (u *MockUI) DisplayBackups(entries []m.BackupEntry) {
	u.Called(entries)
}

func (u *MockUI) DisplayMessage(msg string) {
	u.Called(msg)
}

func (u *MockUI) DisplayError(err error) {
	u.Called(err)
}
