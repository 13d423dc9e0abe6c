package model

import (
	"fmt"
	"regexp"
	"strings"
)

// SymbolKind represents the category of symbol being renamed.
type SymbolKind string

const (
	// SymbolClass renames a type across the tree and its defining file.
	SymbolClass SymbolKind = "CLASS"
	// SymbolMethod renames call and definition sites (name followed by "(").
	SymbolMethod SymbolKind = "METHOD"
	// SymbolVariable renames whole-word occurrences, optionally within one file.
	SymbolVariable SymbolKind = "VARIABLE"
	// SymbolPackage is accepted but not supported yet.
	SymbolPackage SymbolKind = "PACKAGE"
)

var (
	identifierPattern  = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{Nd}_$]*$`)
	packageNamePattern = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{Nd}_$]*(\.[\p{L}_$][\p{L}\p{Nd}_$]*)*$`)
)

// Scope restricts where a symbol is looked up. At most one field is set.
type Scope struct {
	// Class limits a method rename to the file named after this class.
	Class string
	// File limits a variable rename to exactly this file.
	File Path
}

// IsZero reports whether no scope constraint is present.
func (s Scope) IsZero() bool {
	return s.Class == "" && s.File == ""
}

// Symbol is the target of one rename transaction. It is treated as immutable
// once a transaction starts.
type Symbol struct {
	Kind    SymbolKind
	OldName string
	NewName string
	Scope   Scope
}

// Validate checks that the names are usable for a lexical rename.
func (s Symbol) Validate() error {
	switch s.Kind {
	case SymbolClass, SymbolMethod, SymbolVariable, SymbolPackage:
	default:
		return fmt.Errorf("unknown symbol kind %q", s.Kind)
	}

	if strings.TrimSpace(s.OldName) == "" || strings.TrimSpace(s.NewName) == "" {
		return fmt.Errorf("old and new names must not be empty")
	}

	if s.OldName == s.NewName {
		return fmt.Errorf("old and new names are identical: %s", s.OldName)
	}

	pattern := identifierPattern
	if s.Kind == SymbolPackage {
		pattern = packageNamePattern
	}

	for _, name := range []string{s.OldName, s.NewName} {
		if !pattern.MatchString(name) {
			return fmt.Errorf("%q is not a valid %s name", name, strings.ToLower(string(s.Kind)))
		}
	}

	if s.Scope.Class != "" && !identifierPattern.MatchString(s.Scope.Class) {
		return fmt.Errorf("%q is not a valid class scope", s.Scope.Class)
	}

	return nil
}

func (s Symbol) String() string {
	out := fmt.Sprintf("%s %s -> %s", strings.ToLower(string(s.Kind)), s.OldName, s.NewName)

	switch {
	case s.Scope.Class != "":
		out += fmt.Sprintf(" (class %s)", s.Scope.Class)
	case s.Scope.File != "":
		out += fmt.Sprintf(" (file %s)", s.Scope.File)
	}

	return out
}
