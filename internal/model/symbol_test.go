package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbol_Validate(t *testing.T) {
	tests := []struct {
		name    string
		symbol  Symbol
		wantErr bool
	}{
		{"class", Symbol{Kind: SymbolClass, OldName: "Foo", NewName: "Baz"}, false},
		{"method with class scope", Symbol{Kind: SymbolMethod, OldName: "save", NewName: "persist", Scope: Scope{Class: "Repo"}}, false},
		{"variable with dollar", Symbol{Kind: SymbolVariable, OldName: "$el", NewName: "el_2"}, false},
		{"unicode letters", Symbol{Kind: SymbolVariable, OldName: "größe", NewName: "taille"}, false},
		{"unicode punctuation", Symbol{Kind: SymbolVariable, OldName: "a·b", NewName: "c"}, true},
		{"dotted package", Symbol{Kind: SymbolPackage, OldName: "com.acme.core", NewName: "com.acme.base"}, false},
		{"unknown kind", Symbol{Kind: "FIELD", OldName: "a", NewName: "b"}, true},
		{"empty old", Symbol{Kind: SymbolClass, OldName: " ", NewName: "Baz"}, true},
		{"identical names", Symbol{Kind: SymbolClass, OldName: "Foo", NewName: "Foo"}, true},
		{"leading digit", Symbol{Kind: SymbolVariable, OldName: "1x", NewName: "x"}, true},
		{"dotted class", Symbol{Kind: SymbolClass, OldName: "a.B", NewName: "C"}, true},
		{"trailing dot package", Symbol{Kind: SymbolPackage, OldName: "com.", NewName: "org"}, true},
		{"bad class scope", Symbol{Kind: SymbolMethod, OldName: "a", NewName: "b", Scope: Scope{Class: "x-y"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.symbol.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSymbol_String(t *testing.T) {
	assert.Equal(t, "class Foo -> Baz", Symbol{Kind: SymbolClass, OldName: "Foo", NewName: "Baz"}.String())
	assert.Equal(t, "method a -> b (class Repo)",
		Symbol{Kind: SymbolMethod, OldName: "a", NewName: "b", Scope: Scope{Class: "Repo"}}.String())
	assert.Equal(t, "variable a -> b (file src/X.java)",
		Symbol{Kind: SymbolVariable, OldName: "a", NewName: "b", Scope: Scope{File: "src/X.java"}}.String())
}

func TestPath_Stem(t *testing.T) {
	assert.Equal(t, "Foo", Path("src/Foo.java").Stem())
	assert.Equal(t, "Makefile", Path("Makefile").Stem())
	assert.Equal(t, "archive.tar", Path("/tmp/archive.tar.gz").Stem())
}

func TestTransactionState_IsTerminal(t *testing.T) {
	assert.True(t, StateCommitted.IsTerminal())
	assert.True(t, StateRolledBack.IsTerminal())
	assert.False(t, StateApplying.IsTerminal())
	assert.False(t, StateAwaitingConfirmation.IsTerminal())
}
