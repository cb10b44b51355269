package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "exports"))
	require.NoError(t, err)

	path, err := store.Save("2024/logbook.csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "exports", "2024", "logbook.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	_, err = store.Save("2024/logbook.csv", []byte("c\n"))
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "c\n", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "exports", "2024"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStorageAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "exports"))
	require.NoError(t, err)
	target := filepath.Join(dir, "elsewhere.pdf")
	assert.Equal(t, target, store.Path(target))
}
