package model

import "sort"

// Reference is one lexical occurrence of a symbol on a given line.
type Reference struct {
	File Path
	Line int    // 1-based
	Text string // trimmed line content
}

// FileReferences groups the references found in one file.
type FileReferences struct {
	Path Path
	Refs []Reference
}

// ReferenceSet is the ordered result of a scan. Files are sorted by path and
// each file's references by line number.
type ReferenceSet struct {
	Files []FileReferences
}

// NewReferenceSet groups refs by file and sorts them into the canonical order.
// Files without references are dropped.
func NewReferenceSet(refs []Reference) ReferenceSet {
	byFile := make(map[Path][]Reference)
	for _, ref := range refs {
		byFile[ref.File] = append(byFile[ref.File], ref)
	}

	paths := make([]Path, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	set := ReferenceSet{Files: make([]FileReferences, 0, len(paths))}

	for _, path := range paths {
		fileRefs := byFile[path]
		sort.SliceStable(fileRefs, func(i, j int) bool { return fileRefs[i].Line < fileRefs[j].Line })
		set.Files = append(set.Files, FileReferences{Path: path, Refs: fileRefs})
	}

	return set
}

// Len returns the total number of references across all files.
func (s ReferenceSet) Len() int {
	total := 0
	for _, f := range s.Files {
		total += len(f.Refs)
	}

	return total
}

// FileCount returns the number of files with at least one reference.
func (s ReferenceSet) FileCount() int {
	return len(s.Files)
}

// Empty reports whether the set has no references.
func (s ReferenceSet) Empty() bool {
	return s.Len() == 0
}

// Paths returns the files in set order.
func (s ReferenceSet) Paths() []Path {
	paths := make([]Path, 0, len(s.Files))
	for _, f := range s.Files {
		paths = append(paths, f.Path)
	}

	return paths
}
