package domain

import (
	"path/filepath"

	m "github.com/mouse-blink/agentcli/internal/model"
)

// Applier computes the rewritten content for one file.
type Applier interface {
	// Apply replaces every whole-word occurrence of the old name across the
	// full content and returns the number of substitutions. For methods only
	// call and definition sites are rewritten.
	Apply(content []byte, symbol m.Symbol) ([]byte, int)
	// DefiningFileRename returns the move that renames a class's defining
	// file, if refs contain a file named after the class.
	DefiningFileRename(refs m.ReferenceSet, symbol m.Symbol) (m.Rename, bool)
}

type applier struct{}

// NewApplier returns the lexical Applier.
func NewApplier() Applier {
	return applier{}
}

func (applier) Apply(content []byte, symbol m.Symbol) ([]byte, int) {
	return newMatcher(symbol).replace(content, symbol.NewName)
}

func (applier) DefiningFileRename(refs m.ReferenceSet, symbol m.Symbol) (m.Rename, bool) {
	if symbol.Kind != m.SymbolClass {
		return m.Rename{}, false
	}

	for _, path := range refs.Paths() {
		if path.Stem() != symbol.OldName {
			continue
		}

		dir, base := filepath.Split(string(path))
		target := filepath.Join(dir, symbol.NewName+filepath.Ext(base))

		return m.Rename{From: path, To: m.Path(target)}, true
	}

	return m.Rename{}, false
}
