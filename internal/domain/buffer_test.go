package domain

import (
	"os"
	"testing"

	m "github.com/mouse-blink/agentcli/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionBuffer(t *testing.T) {
	buf := NewTransactionBuffer()

	content := []byte("original")
	buf.Capture("b.txt", content, 0o600)
	buf.Capture("a.txt", []byte("a"), 0o644)

	// Mutating the caller's slice must not change the snapshot.
	content[0] = 'X'

	got, perm, ok := buf.Original("b.txt")
	require.True(t, ok)
	assert.Equal(t, "original", string(got))
	assert.Equal(t, os.FileMode(0o600), perm)

	t.Run("first capture wins", func(t *testing.T) {
		buf.Capture("b.txt", []byte("later"), 0o644)

		got, _, _ := buf.Original("b.txt")
		assert.Equal(t, "original", string(got))
	})

	assert.Equal(t, []m.Path{"b.txt", "a.txt"}, buf.Paths())
	assert.Equal(t, 2, buf.Len())

	buf.Discard()
	assert.Zero(t, buf.Len())

	_, _, ok = buf.Original("b.txt")
	assert.False(t, ok)
}
