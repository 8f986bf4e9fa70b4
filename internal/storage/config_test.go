package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/recstore/internal/model"
)

func TestConfigStore_WriteAndRead(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewConfigStore(tmpDir)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := &model.StoreConfig{Name: "tasks", RecordID: "key", DataSync: true, Created: created}

	require.NoError(t, store.WriteConfig(cfg))
	assert.True(t, store.Exists("tasks"))

	got, err := store.ReadConfig("tasks")
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestConfigStore_ReadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewConfigStore(tmpDir)

	dir := filepath.Join(tmpDir, "tasks")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"name":"tasks"}`), 0644))

	got, err := store.ReadConfig("tasks")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultRecordID, got.RecordID)
	assert.False(t, got.DataSync)
}

func TestConfigStore_NotFound(t *testing.T) {
	store := NewConfigStore(t.TempDir())

	_, err := store.ReadConfig("missing")
	assert.ErrorIs(t, err, model.ErrStoreNotFound)
	assert.False(t, store.Exists("missing"))
}

func TestConfigStore_ListStoreDirs(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewConfigStore(tmpDir)

	require.NoError(t, store.WriteConfig(&model.StoreConfig{Name: "alpha"}))
	require.NoError(t, store.WriteConfig(&model.StoreConfig{Name: "beta"}))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ".hidden"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "_meta"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "no-config"), 0755))

	names, err := store.ListStoreDirs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, names)

	t.Run("missing data directory", func(t *testing.T) {
		names, err := NewConfigStore(filepath.Join(tmpDir, "nope")).ListStoreDirs()
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}

func TestConfigStore_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewConfigStore(tmpDir)

	require.NoError(t, store.WriteConfig(&model.StoreConfig{Name: "tasks"}))
	require.NoError(t, store.DeleteConfig("tasks"))
	assert.False(t, store.Exists("tasks"))

	_, err := os.Stat(filepath.Join(tmpDir, "tasks"))
	assert.True(t, os.IsNotExist(err))
}
