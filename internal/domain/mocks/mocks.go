// Package mocks provides testify mocks for the domain package.
package mocks

import (
	"context"
	"testing"

	"github.com/mouse-blink/agentcli/internal/domain"
	m "github.com/mouse-blink/agentcli/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockTransactionController is a testify mock of domain.TransactionController.
type MockTransactionController struct {
	mock.Mock
}

// NewMockTransactionController creates a mock that asserts its expectations on cleanup.
func NewMockTransactionController(t *testing.T) *MockTransactionController {
	c := &MockTransactionController{}
	c.Test(t)
	t.Cleanup(func() { c.AssertExpectations(t) })

	return c
}

func (c *MockTransactionController) Execute(ctx context.Context, symbol m.Symbol) (m.TransactionResult, error) {
	args := c.Called(ctx, symbol)
	return args.Get(0).(m.TransactionResult), args.Error(1)
}

// MockEditor is a testify mock of domain.Editor.
type MockEditor struct {
	mock.Mock
}

// NewMockEditor creates a mock that asserts its expectations on cleanup.
func NewMockEditor(t *testing.T) *MockEditor {
	e := &MockEditor{}
	e.Test(t)
	t.Cleanup(func() { e.AssertExpectations(t) })

	return e
}

func (e *MockEditor) Write(path m.Path, content []byte) (domain.EditResult, error) {
	args := e.Called(path, content)
	return args.Get(0).(domain.EditResult), args.Error(1)
}

func (e *MockEditor) Edit(path m.Path, old, replacement string) (domain.EditResult, error) {
	args := e.Called(path, old, replacement)
	return args.Get(0).(domain.EditResult), args.Error(1)
}

func (e *MockEditor) Undo() (m.BackupEntry, bool, error) {
	args := e.Called()
	return args.Get(0).(m.BackupEntry), args.Bool(1), args.Error(2)
}

func (e *MockEditor) Backups(file *m.Path) ([]m.BackupEntry, error) {
	args := e.Called(file)

	var entries []m.BackupEntry
	if v := args.Get(0); v != nil {
		entries = v.([]m.BackupEntry)
	}

	return entries, args.Error(1)
}
