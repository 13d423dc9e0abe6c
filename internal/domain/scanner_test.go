package domain

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mouse-blink/agentcli/internal/adapter"
	rerrors "github.com/mouse-blink/agentcli/internal/errors"
	"github.com/mouse-blink/agentcli/internal/logging"
	m "github.com/mouse-blink/agentcli/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScanner(fsAdapter adapter.SourceFSAdapter, opts ScanOptions) Scanner {
	return NewScanner(fsAdapter, logging.NewDiscardLogger(), opts)
}

func TestScanner_FooBarExample(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Foo.java"), "class Foo { Foo() {} }")
	writeFile(t, filepath.Join(root, "Bar.java"), "Foo f = new Foo();")

	set, err := newTestScanner(adapter.NewLocalSourceFSAdapter(), ScanOptions{Workers: 4}).
		Scan(context.Background(), m.Path(root), m.Symbol{Kind: m.SymbolClass, OldName: "Foo", NewName: "Baz"})
	require.NoError(t, err)

	assert.Equal(t, 2, set.FileCount())
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []m.Path{m.Path(filepath.Join(root, "Bar.java")), m.Path(filepath.Join(root, "Foo.java"))}, set.Paths())
	assert.Equal(t, m.Reference{File: m.Path(filepath.Join(root, "Bar.java")), Line: 1, Text: "Foo f = new Foo();"}, set.Files[0].Refs[0])
}

func TestScanner_WholeWordSafety(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Service.java"), "class UserService {\n  UserService() {}\n}\n")

	set, err := newTestScanner(adapter.NewLocalSourceFSAdapter(), ScanOptions{}).
		Scan(context.Background(), m.Path(root), m.Symbol{Kind: m.SymbolClass, OldName: "User", NewName: "Account"})
	require.NoError(t, err)

	assert.True(t, set.Empty())
}

func TestScanner_Idempotent(t *testing.T) {
	root := t.TempDir()
	for i, name := range []string{"c/Z.java", "a/B.java", "a/A.java", "m.txt"} {
		writeFile(t, filepath.Join(root, name), strings.Repeat("value\nother value value\n", i+1))
	}

	scanner := newTestScanner(adapter.NewLocalSourceFSAdapter(), ScanOptions{Workers: 3})
	symbol := m.Symbol{Kind: m.SymbolVariable, OldName: "value", NewName: "amount"}

	first, err := scanner.Scan(context.Background(), m.Path(root), symbol)
	require.NoError(t, err)

	second, err := scanner.Scan(context.Background(), m.Path(root), symbol)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 4, first.FileCount())
	assert.Equal(t, 20, first.Len(), "one reference per matching line")

	for _, file := range first.Files {
		for i := 1; i < len(file.Refs); i++ {
			assert.Less(t, file.Refs[i-1].Line, file.Refs[i].Line)
		}
	}
}

func TestScanner_Filtering(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "Keep.java"), "token")
	for _, dir := range []string{"target", "build", ".git", "node_modules", ".agentcli", "vendor"} {
		writeFile(t, filepath.Join(root, dir, "Skip.java"), "token")
	}
	writeFile(t, filepath.Join(root, "blob.bin"), "token\x00\x01")
	writeFile(t, filepath.Join(root, "big.txt"), "token"+strings.Repeat("x", 64))

	set, err := newTestScanner(adapter.NewLocalSourceFSAdapter(), ScanOptions{ExcludeDirs: []string{"vendor"}, MaxFileSize: 32}).
		Scan(context.Background(), m.Path(root), m.Symbol{Kind: m.SymbolVariable, OldName: "token", NewName: "tok"})
	require.NoError(t, err)

	assert.Equal(t, []m.Path{m.Path(filepath.Join(root, "src", "Keep.java"))}, set.Paths())
}

func TestScanner_RootNamedLikeExcludedDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build")
	writeFile(t, filepath.Join(root, "A.java"), "token")

	set, err := newTestScanner(adapter.NewLocalSourceFSAdapter(), ScanOptions{}).
		Scan(context.Background(), m.Path(root), m.Symbol{Kind: m.SymbolVariable, OldName: "token", NewName: "tok"})
	require.NoError(t, err)

	assert.Equal(t, 1, set.Len())
}

func TestScanner_MethodScopes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Cart.java"), "class Cart {\n  void total() {}\n  int total = 0;\n}\n")
	writeFile(t, filepath.Join(root, "Order.java"), "cart.total();\n")

	scanner := newTestScanner(adapter.NewLocalSourceFSAdapter(), ScanOptions{})

	t.Run("class scope restricts to the class file", func(t *testing.T) {
		set, err := scanner.Scan(context.Background(), m.Path(root),
			m.Symbol{Kind: m.SymbolMethod, OldName: "total", NewName: "sum", Scope: m.Scope{Class: "Cart"}})
		require.NoError(t, err)

		require.Equal(t, []m.Path{m.Path(filepath.Join(root, "Cart.java"))}, set.Paths())
		assert.Equal(t, 2, set.Files[0].Refs[0].Line)
		assert.Len(t, set.Files[0].Refs, 1, "field without parenthesis is not a call site")
	})

	t.Run("unscoped searches call sites tree-wide", func(t *testing.T) {
		set, err := scanner.Scan(context.Background(), m.Path(root),
			m.Symbol{Kind: m.SymbolMethod, OldName: "total", NewName: "sum"})
		require.NoError(t, err)

		assert.Equal(t, 2, set.FileCount())
		assert.Equal(t, 2, set.Len())
	})
}

func TestScanner_VariableFileScope(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "A.java"), "int idx = 0;\n")
	writeFile(t, filepath.Join(root, "B.java"), "int idx = 1;\n")

	scanner := newTestScanner(adapter.NewLocalSourceFSAdapter(), ScanOptions{})
	symbol := m.Symbol{Kind: m.SymbolVariable, OldName: "idx", NewName: "i"}

	t.Run("relative scope resolves against root", func(t *testing.T) {
		scoped := symbol
		scoped.Scope.File = m.Path(filepath.Join("pkg", "A.java"))

		set, err := scanner.Scan(context.Background(), m.Path(root), scoped)
		require.NoError(t, err)

		assert.Equal(t, []m.Path{m.Path(filepath.Join(root, "pkg", "A.java"))}, set.Paths())
	})

	t.Run("missing scope file", func(t *testing.T) {
		scoped := symbol
		scoped.Scope.File = "missing.java"

		_, err := scanner.Scan(context.Background(), m.Path(root), scoped)
		require.Error(t, err)
		assert.Equal(t, rerrors.NotFound, rerrors.CodeOf(err))
	})

	t.Run("unscoped covers the tree", func(t *testing.T) {
		set, err := scanner.Scan(context.Background(), m.Path(root), symbol)
		require.NoError(t, err)

		assert.Equal(t, 2, set.FileCount())
	})
}

func TestScanner_ReadFailureAborts(t *testing.T) {
	root := t.TempDir()
	broken := filepath.Join(root, "Broken.java")
	writeFile(t, broken, "token")
	writeFile(t, filepath.Join(root, "Fine.java"), "token")

	fsAdapter := newFaultyFS()
	fsAdapter.readErr[m.Path(broken)] = errors.New("permission denied")

	_, err := newTestScanner(fsAdapter, ScanOptions{Workers: 2}).
		Scan(context.Background(), m.Path(root), m.Symbol{Kind: m.SymbolVariable, OldName: "token", NewName: "tok"})
	require.Error(t, err)

	assert.Equal(t, rerrors.ScanFailed, rerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "Broken.java")
}

func TestScanner_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A.java"), "token")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestScanner(adapter.NewLocalSourceFSAdapter(), ScanOptions{}).
		Scan(ctx, m.Path(root), m.Symbol{Kind: m.SymbolVariable, OldName: "token", NewName: "tok"})
	assert.ErrorIs(t, err, context.Canceled)
}
