package graphs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("# graph\n0\n0\n"), 0o644))
}

func TestDirLister_ListGraphs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "toy.fmi"))
	writeFile(t, filepath.Join(dir, "bw", "bbgrund.FMI"))
	writeFile(t, filepath.Join(dir, "notes.txt"))

	graphs, err := DirLister{Dir: dir}.ListGraphs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"bw/bbgrund.FMI", "toy.fmi"}, graphs)
}

func TestDirLister_Errors(t *testing.T) {
	_, err := DirLister{Dir: filepath.Join(t.TempDir(), "missing")}.ListGraphs(context.Background())
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "toy.fmi")
	writeFile(t, file)
	_, err = DirLister{Dir: file}.ListGraphs(context.Background())
	assert.ErrorContains(t, err, "not a directory")
}

func TestDirLister_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "toy.fmi"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DirLister{Dir: dir}.ListGraphs(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
