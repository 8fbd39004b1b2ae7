package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStoreSaveAndOpen(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("result_1.png", []byte("image-bytes"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)

	file, err := store.Open("result_1.png")
	require.NoError(t, err)
	require.NoError(t, file.Close())
}

func TestArtifactStoreCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewArtifactStore(dir)
	require.NoError(t, err)

	oldPath, err := store.Save("old.png", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("fresh.png", []byte("fresh"))
	require.NoError(t, err)

	stale := time.Now().Add(-15 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, stale, stale))

	deleted, err := store.CleanupOlderThan(14 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.png"}, deleted)

	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "fresh.png"))
	assert.NoError(t, err)
}
