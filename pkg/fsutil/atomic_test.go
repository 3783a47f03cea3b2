package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dcsl-project/debrief/pkg/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWrite_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	data := []byte(`{"alive_units": {}}`)

	err := fsutil.AtomicWrite(path, data, 0644)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, content)
}

func TestAtomicWrite_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	os.WriteFile(path, []byte("old"), 0644)

	err := fsutil.AtomicWrite(path, []byte("new"), 0644)
	require.NoError(t, err)

	content, _ := os.ReadFile(path)
	assert.Equal(t, "new", string(content))
}

func TestAtomicWrite_NoTmpLeftOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	fsutil.AtomicWrite(path, []byte("data"), 0644)

	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 1, "only the target file should exist")
}

func TestAtomicWrite_MissingDir(t *testing.T) {
	err := fsutil.AtomicWrite(filepath.Join(t.TempDir(), "nope", "f"), []byte("x"), 0644)
	assert.Error(t, err)
}

func TestFsyncDir(t *testing.T) {
	dir := t.TempDir()
	err := fsutil.FsyncDir(dir)
	assert.NoError(t, err)
}

func TestEnsureDir_CreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "liberation_debriefings")

	created, err := fsutil.EnsureDir(dir)
	require.NoError(t, err)
	assert.True(t, created)
	assert.DirExists(t, dir)

	created, err = fsutil.EnsureDir(dir)
	require.NoError(t, err)
	assert.False(t, created, "second call finds the directory")
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := fsutil.EnsureDir(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
