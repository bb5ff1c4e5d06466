package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.hcl", "a.hcl", "notes.txt", "sub/c.hcl"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
	single := filepath.Join(dir, "notes.txt")

	files, err := CollectFiles([]string{dir, single, filepath.Join(dir, "a.hcl")}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "b.hcl"),
		single,
		filepath.Join(dir, "sub", "c.hcl"),
	}, files)

	_, err = CollectFiles([]string{filepath.Join(dir, "missing")}, ".hcl")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
