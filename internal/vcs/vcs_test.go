package vcs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerosync-co/tintdiff/internal/diff"
)

func TestNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"git", "svn", "hg"}, Names())
}

func TestSystems(t *testing.T) {
	t.Parallel()

	for _, s := range Systems {
		assert.NotEmpty(t, s.Probe)
		assert.NotEmpty(t, s.Diff)
		assert.Equal(t, s.Name, s.Probe[0], "probe runs the tool itself")
		assert.Equal(t, s.Name, s.Diff[0], "diff runs the tool itself")
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte("a\nb\nc\n"), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte("a\nx\nc\n"), 0o644))

	out, err := Compare(oldPath, newPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "--- "+oldPath+"\n"))
	assert.Contains(t, out, "+++ "+newPath+"\n")
	assert.Contains(t, out, "-b\n")
	assert.Contains(t, out, "+x\n")

	// the produced diff must be consumable by our own parser
	files, err := diff.Parse(diff.SplitLines(out))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Len(t, files[0].Hunks, 1)
}

func TestCompareIdentical(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "same.txt")
	require.NoError(t, os.WriteFile(path, []byte("unchanged\n"), 0o644))

	out, err := Compare(path, path)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCompareMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := Compare(filepath.Join(dir, "absent"), filepath.Join(dir, "also-absent"))
	assert.Error(t, err)
}
