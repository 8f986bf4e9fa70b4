package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/recstore/internal/filter"
	"github.com/user/recstore/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_CreateAndGetConfig(t *testing.T) {
	store := newTestStore(t)

	t.Run("create store", func(t *testing.T) {
		cfg := &model.StoreConfig{Name: "tasks", DataSync: true}
		require.NoError(t, store.CreateStore(cfg))
		assert.Equal(t, model.DefaultRecordID, cfg.RecordID)
		assert.False(t, cfg.Created.IsZero())
	})

	t.Run("get config", func(t *testing.T) {
		cfg, err := store.GetConfig("tasks")
		require.NoError(t, err)
		assert.Equal(t, "tasks", cfg.Name)
		assert.True(t, cfg.DataSync)
	})

	t.Run("create duplicate store fails", func(t *testing.T) {
		err := store.CreateStore(&model.StoreConfig{Name: "tasks"})
		assert.ErrorIs(t, err, model.ErrStoreExists)
	})

	t.Run("invalid name", func(t *testing.T) {
		err := store.CreateStore(&model.StoreConfig{Name: "1bad"})
		assert.ErrorIs(t, err, model.ErrInvalidStoreName)
	})

	t.Run("reserved record id", func(t *testing.T) {
		err := store.CreateStore(&model.StoreConfig{Name: "other", RecordID: model.SyncKey})
		assert.ErrorIs(t, err, model.ErrReservedField)
	})

	t.Run("get non-existent store", func(t *testing.T) {
		_, err := store.GetConfig("missing")
		assert.ErrorIs(t, err, model.ErrStoreNotFound)
	})
}

func TestStore_ListStores(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateStore(&model.StoreConfig{Name: "beta"}))
	require.NoError(t, store.CreateStore(&model.StoreConfig{Name: "alpha"}))

	configs, err := store.ListStores()
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "alpha", configs[0].Name)
	assert.Equal(t, "beta", configs[1].Name)
}

func TestStore_DropStore(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateStore(&model.StoreConfig{Name: "tasks"}))

	require.NoError(t, store.DropStore("tasks"))

	_, err := store.GetConfig("tasks")
	assert.ErrorIs(t, err, model.ErrStoreNotFound)
	assert.ErrorIs(t, store.DropStore("tasks"), model.ErrStoreNotFound)
}

func TestStore_OpenCommitRoundTrip(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateStore(&model.StoreConfig{Name: "tasks", DataSync: true}))

	ds, err := store.Open("tasks")
	require.NoError(t, err)
	assert.False(t, ds.Initialized())
	assert.True(t, ds.DataSync())

	ds.Save([]map[string]any{
		{"id": 1, "state": "open"},
		{"id": 2, "state": "closed"},
		{"id": 3, "state": "open"},
	}, false)
	ds.Remove(2)
	require.NoError(t, store.Commit(ds))

	reopened, err := store.Open("tasks")
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Len())
	assert.Len(t, reopened.Pending(), 3)

	open := reopened.Filter(filter.Spec{"state": "open"}, false)
	assert.Len(t, open, 2)
	assert.Len(t, reopened.Read(1), 1, "numbers read back from disk still match")

	count, err := store.CountRecords("tasks")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	t.Run("purge is persisted", func(t *testing.T) {
		assert.Equal(t, 1, reopened.Purge())
		require.NoError(t, store.Commit(reopened))

		again, err := store.Open("tasks")
		require.NoError(t, err)
		assert.Len(t, again.Records(), 2)
	})
}

func TestStore_ReservedFieldRoundTrip(t *testing.T) {
	for _, dataSync := range []bool{false, true} {
		store := newTestStore(t)
		require.NoError(t, store.CreateStore(&model.StoreConfig{Name: "tasks", DataSync: dataSync}))

		ds, err := store.Open("tasks")
		require.NoError(t, err)
		ds.Save([]map[string]any{
			{"id": 1, model.SyncKey: "hello"},
			{"id": 2, model.SyncKey: "removed"},
		}, false)
		require.NoError(t, store.Commit(ds))

		reopened, err := store.Open("tasks")
		require.NoError(t, err, "dataSync=%v", dataSync)
		assert.Equal(t, 2, reopened.Len(), "dataSync=%v", dataSync)
		for _, r := range reopened.Read(nil) {
			assert.NotContains(t, r, model.SyncKey)
		}
	}
}

func TestStore_OpenMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Open("missing")
	assert.ErrorIs(t, err, model.ErrStoreNotFound)
}

func TestStore_RebuildCache(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateStore(&model.StoreConfig{Name: "tasks"}))

	// Write the snapshot behind the cache's back.
	path := filepath.Join(store.BaseDir(), "tasks", RecordsFile)
	require.NoError(t, os.WriteFile(path, []byte("{\"id\":1}\n{\"id\":2}\n"), 0644))

	count, err := store.CountRecords("tasks")
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, store.RebuildCache("tasks"))

	count, err = store.CountRecords("tasks")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	t.Run("removed store is dropped from cache", func(t *testing.T) {
		require.NoError(t, os.RemoveAll(filepath.Join(store.BaseDir(), "tasks")))
		assert.ErrorIs(t, store.RebuildCache("tasks"), model.ErrStoreNotFound)

		rows, _, err := store.RawQuery(`SELECT store_name FROM _store_meta`)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestStore_RebuildAll(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateStore(&model.StoreConfig{Name: "alpha"}))
	require.NoError(t, store.CreateStore(&model.StoreConfig{Name: "beta"}))
	require.NoError(t, os.RemoveAll(filepath.Join(store.BaseDir(), "beta")))

	names, err := store.RebuildAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, names)

	configs, err := store.ListStores()
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "alpha", configs[0].Name)
}

func TestDefaultBaseDir(t *testing.T) {
	t.Setenv("RECSTORE_DIR", "/tmp/custom-recstore")
	assert.Equal(t, "/tmp/custom-recstore", DefaultBaseDir())

	t.Setenv("RECSTORE_DIR", "")
	assert.Equal(t, DefaultDirName, filepath.Base(DefaultBaseDir()))
}
