// Package model defines the data structures shared by the rename engine.
package model

import "path/filepath"

// Path represents a file system path.
type Path string

// String returns the path as a plain string.
func (p Path) String() string {
	return string(p)
}

// Base returns the last element of the path.
func (p Path) Base() string {
	return filepath.Base(string(p))
}

// Stem returns the base name without its extension (e.g. "Foo" for "src/Foo.java").
func (p Path) Stem() string {
	base := p.Base()
	return base[:len(base)-len(filepath.Ext(base))]
}

// Rename describes a file move performed as part of a transaction.
type Rename struct {
	From Path
	To   Path
}
