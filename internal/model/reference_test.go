package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReferenceSet_Ordering(t *testing.T) {
	set := NewReferenceSet([]Reference{
		{File: "b/Bar.java", Line: 9, Text: "Foo x;"},
		{File: "a/Foo.java", Line: 3, Text: "Foo() {}"},
		{File: "b/Bar.java", Line: 2, Text: "import Foo;"},
		{File: "a/Foo.java", Line: 1, Text: "class Foo {"},
	})

	require.Equal(t, []Path{"a/Foo.java", "b/Bar.java"}, set.Paths())
	assert.Equal(t, 4, set.Len())
	assert.Equal(t, 2, set.FileCount())
	assert.False(t, set.Empty())

	assert.Equal(t, 1, set.Files[0].Refs[0].Line)
	assert.Equal(t, 3, set.Files[0].Refs[1].Line)
	assert.Equal(t, 2, set.Files[1].Refs[0].Line)
	assert.Equal(t, 9, set.Files[1].Refs[1].Line)
}

func TestNewReferenceSet_Empty(t *testing.T) {
	set := NewReferenceSet(nil)

	assert.True(t, set.Empty())
	assert.Zero(t, set.FileCount())
	assert.Empty(t, set.Paths())
}

func TestTransactionResult_Clean(t *testing.T) {
	assert.True(t, TransactionResult{Outcome: OutcomeRolledBack}.Clean())
	assert.False(t, TransactionResult{Outcome: OutcomeRolledBack, UnrestoredPaths: []Path{"a"}}.Clean())
}
