package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	rerrors "github.com/mouse-blink/agentcli/internal/errors"
	domainmocks "github.com/mouse-blink/agentcli/internal/domain/mocks"
	m "github.com/mouse-blink/agentcli/internal/model"
)

func injectController(t *testing.T) *domainmocks.MockTransactionController {
	t.Helper()

	mockController := domainmocks.NewMockTransactionController(t)
	original := txController
	txController = mockController
	t.Cleanup(func() { txController = original })

	return mockController
}

func TestRenameClassCmd_PassesSymbol(t *testing.T) {
	mockController := injectController(t)
	cmd, _, _ := newTestRoot(t, newRenameClassCmd())

	want := m.Symbol{Kind: m.SymbolClass, OldName: "Foo", NewName: "Baz"}
	mockController.On("Execute", mock.Anything, want).
		Return(m.TransactionResult{Symbol: want, Outcome: m.OutcomeCommitted}, nil)

	cmd.SetArgs([]string{"--root", t.TempDir(), "rename-class", "Foo", "Baz"})
	assert.Equal(t, ExitOK, run(cmd))
}

func TestRenameMethodCmd_ClassScope(t *testing.T) {
	mockController := injectController(t)
	cmd, _, _ := newTestRoot(t, newRenameMethodCmd())

	mockController.On("Execute", mock.Anything, mock.MatchedBy(func(s m.Symbol) bool {
		return s.Kind == m.SymbolMethod && s.OldName == "save" && s.NewName == "persist" &&
			s.Scope.Class == "UserRepository"
	})).Return(m.TransactionResult{Outcome: m.OutcomeCancelled}, nil)

	cmd.SetArgs([]string{"--root", t.TempDir(), "rename-method", "save", "persist", "--class", "UserRepository"})
	assert.Equal(t, ExitCancelled, run(cmd))
}

func TestRenameVariableCmd_ScopePassedThrough(t *testing.T) {
	mockController := injectController(t)
	cmd, _, _ := newTestRoot(t, newRenameVariableCmd())

	mockController.On("Execute", mock.Anything, mock.MatchedBy(func(s m.Symbol) bool {
		return s.Kind == m.SymbolVariable && s.Scope.File == m.Path(filepath.Join("src", "Parser.java"))
	})).Return(m.TransactionResult{Outcome: m.OutcomeNoReferences}, nil)

	cmd.SetArgs([]string{"--root", t.TempDir(), "rename-variable", "tmp", "buffer", "--scope", filepath.Join("src", "Parser.java")})
	assert.Equal(t, ExitNoReferences, run(cmd))
}

func TestRenameVariableCmd_RelativeScopeResolvesAgainstRoot(t *testing.T) {
	root := t.TempDir()
	parser := filepath.Join(root, "src", "Parser.java")
	other := filepath.Join(root, "src", "Lexer.java")
	writeTreeFile(t, parser, "int tmp = 1;\n")
	writeTreeFile(t, other, "int tmp = 2;\n")

	cmd, stdout, _ := newTestRoot(t, newRenameVariableCmd())
	cmd.SetArgs([]string{"--root", root, "--yes", "rename-variable", "tmp", "buffer", "--scope", filepath.Join("src", "Parser.java")})

	require.Equal(t, ExitOK, run(cmd), stdout.String())
	assert.Equal(t, "int buffer = 1;\n", readTreeFile(t, parser))
	assert.Equal(t, "int tmp = 2;\n", readTreeFile(t, other))
}

func TestRenameVariableCmd_NoScope(t *testing.T) {
	mockController := injectController(t)
	cmd, _, _ := newTestRoot(t, newRenameVariableCmd())

	mockController.On("Execute", mock.Anything, mock.MatchedBy(func(s m.Symbol) bool {
		return s.Scope.IsZero()
	})).Return(m.TransactionResult{Outcome: m.OutcomeRolledBack}, nil)

	cmd.SetArgs([]string{"--root", t.TempDir(), "rename-variable", "count", "total"})
	assert.Equal(t, ExitFailure, run(cmd))
}

func TestRenameCmd_ControllerError(t *testing.T) {
	mockController := injectController(t)
	cmd, _, stderr := newTestRoot(t, newRenameClassCmd())

	mockController.On("Execute", mock.Anything, mock.Anything).
		Return(m.TransactionResult{}, rerrors.ErrTransactionActive)

	cmd.SetArgs([]string{"--root", t.TempDir(), "rename-class", "Foo", "Baz"})
	assert.Equal(t, ExitFailure, run(cmd))
	assert.Contains(t, stderr.String(), "error:")
}

func TestRenameCmd_WrongArgCount(t *testing.T) {
	injectController(t)
	cmd, _, _ := newTestRoot(t, newRenameClassCmd())

	cmd.SetArgs([]string{"--root", t.TempDir(), "rename-class", "Foo"})
	assert.Equal(t, ExitFailure, run(cmd))
}

func TestRenameClassCmd_EndToEnd(t *testing.T) {
	root := t.TempDir()
	writeTreeFile(t, filepath.Join(root, "src", "Foo.java"), "class Foo { Foo() {} }\n")
	writeTreeFile(t, filepath.Join(root, "src", "Bar.java"), "class Bar { Foo f; }\n")
	writeTreeFile(t, filepath.Join(root, "src", "Other.java"), "class Other { FooBar x; }\n")

	cmd, stdout, _ := newTestRoot(t, newRenameClassCmd())
	cmd.SetArgs([]string{"--root", root, "--yes", "rename-class", "Foo", "Baz"})

	require.Equal(t, ExitOK, run(cmd), stdout.String())
	assert.Nil(t, txController, "wired controller is reset after the command")

	assert.Equal(t, "class Baz { Baz() {} }\n", readTreeFile(t, filepath.Join(root, "src", "Baz.java")))
	assert.Equal(t, "class Bar { Baz f; }\n", readTreeFile(t, filepath.Join(root, "src", "Bar.java")))
	assert.Equal(t, "class Other { FooBar x; }\n", readTreeFile(t, filepath.Join(root, "src", "Other.java")))
	assert.NoFileExists(t, filepath.Join(root, "src", "Foo.java"))

	assert.Contains(t, stdout.String(), "Rename committed: 2 file(s) modified, 2 reference(s) replaced")
}

func TestRenameClassCmd_DeclinedPromptChangesNothing(t *testing.T) {
	root := t.TempDir()
	foo := filepath.Join(root, "Foo.java")
	writeTreeFile(t, foo, "class Foo {}\n")

	cmd, stdout, _ := newTestRoot(t, newRenameClassCmd())
	cmd.SetIn(stringsReader("n\n"))
	cmd.SetArgs([]string{"--root", root, "rename-class", "Foo", "Baz"})

	assert.Equal(t, ExitCancelled, run(cmd))
	assert.Equal(t, "class Foo {}\n", readTreeFile(t, foo))
	assert.Contains(t, stdout.String(), "Rename cancelled")
}

func TestRenameMethodCmd_NoReferences(t *testing.T) {
	root := t.TempDir()
	writeTreeFile(t, filepath.Join(root, "App.java"), "class App { int save; }\n")

	cmd, stdout, _ := newTestRoot(t, newRenameMethodCmd())
	cmd.SetArgs([]string{"--root", root, "--yes", "rename-method", "save", "persist"})

	assert.Equal(t, ExitNoReferences, run(cmd))
	assert.Contains(t, stdout.String(), "No references found")
}

func TestRenamePackageCmd_NoSideEffects(t *testing.T) {
	root := t.TempDir()

	cmd, stdout, _ := newTestRoot(t, newRenamePackageCmd())
	cmd.SetArgs([]string{"--root", root, "rename-package", "com.acme.core", "com.acme.base"})

	assert.Equal(t, ExitNotSupported, run(cmd))
	assert.Contains(t, stdout.String(), "not yet supported")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "package rename must not create any state")
}
