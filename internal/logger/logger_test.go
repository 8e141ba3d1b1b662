package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerbosef(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf)
	l.SetFlags(0)

	l.Verbosef("hidden %d", 1)
	assert.Empty(t, buf.String())

	l.SetVerbose(true)
	l.Verbosef("shown %d", 2)
	assert.Equal(t, "shown 2\n", buf.String())
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.log")
	l := NewFile(path)
	l.Printf("search started")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "search started")
}

func TestCloseWithoutFile(t *testing.T) {
	assert.NoError(t, Discard().Close())
}
