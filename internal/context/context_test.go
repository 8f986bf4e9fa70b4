package context

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeStore creates a store directory with a config file.
func makeStore(t *testing.T, dataDir, name string) {
	t.Helper()
	dir := filepath.Join(dataDir, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"name":"`+name+`"}`), 0644))
}

// chdir changes into dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestFindDataDir(t *testing.T) {
	t.Setenv("RECSTORE_DIR", "")

	t.Run("finds .recstore in current directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		dataDir := filepath.Join(tmpDir, DataDirName)
		require.NoError(t, os.Mkdir(dataDir, 0755))
		chdir(t, tmpDir)

		assert.Equal(t, dataDir, FindDataDir())
	})

	t.Run("finds .recstore in parent directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		dataDir := filepath.Join(tmpDir, DataDirName)
		require.NoError(t, os.Mkdir(dataDir, 0755))
		subDir := filepath.Join(tmpDir, "a", "b", "c")
		require.NoError(t, os.MkdirAll(subDir, 0755))
		chdir(t, subDir)

		assert.Equal(t, dataDir, FindDataDir())
	})

	t.Run("ignores a file named .recstore", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, DataDirName), nil, 0644))

		assert.Empty(t, findDataDirFrom(tmpDir))
	})

	t.Run("environment overrides search", func(t *testing.T) {
		t.Setenv("RECSTORE_DIR", "/custom/dir")
		assert.Equal(t, "/custom/dir", FindDataDir())
	})
}

func TestDefaultStore(t *testing.T) {
	t.Setenv("RECSTORE_DEFAULT", "")

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("RECSTORE_DEFAULT", "env-store")
		assert.Equal(t, "env-store", DefaultStore(""))
	})

	t.Run("single store is selected", func(t *testing.T) {
		dataDir := t.TempDir()
		makeStore(t, dataDir, "tasks")
		require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "not-a-store"), 0755))
		require.NoError(t, os.MkdirAll(filepath.Join(dataDir, ".hidden"), 0755))

		assert.Equal(t, "tasks", DefaultStore(dataDir))
	})

	t.Run("multiple stores need a flag", func(t *testing.T) {
		dataDir := t.TempDir()
		makeStore(t, dataDir, "tasks")
		makeStore(t, dataDir, "notes")

		assert.Empty(t, DefaultStore(dataDir))
	})

	t.Run("no data directory", func(t *testing.T) {
		assert.Empty(t, DefaultStore(""))
	})
}

func TestResolve(t *testing.T) {
	t.Setenv("RECSTORE_DEFAULT", "")

	dataDir := t.TempDir()
	t.Setenv("RECSTORE_DIR", dataDir)
	makeStore(t, dataDir, "tasks")

	t.Run("flag wins over detection", func(t *testing.T) {
		ctx, err := Resolve("other")
		require.NoError(t, err)
		assert.Equal(t, dataDir, ctx.DataDir)
		assert.Equal(t, "other", ctx.Store)
	})

	t.Run("auto-detects store when flag empty", func(t *testing.T) {
		ctx, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "tasks", ctx.Store)
	})
}

func TestResolveRequired(t *testing.T) {
	t.Setenv("RECSTORE_DEFAULT", "")

	t.Run("missing data directory", func(t *testing.T) {
		t.Setenv("RECSTORE_DIR", "")
		chdir(t, t.TempDir())

		_, err := ResolveRequired("tasks")
		assert.ErrorIs(t, err, ErrNoDataDir)
	})

	t.Run("ambiguous store", func(t *testing.T) {
		dataDir := t.TempDir()
		t.Setenv("RECSTORE_DIR", dataDir)
		makeStore(t, dataDir, "tasks")
		makeStore(t, dataDir, "notes")

		_, err := ResolveRequired("")
		assert.ErrorIs(t, err, ErrNoStore)
	})

	t.Run("resolved", func(t *testing.T) {
		dataDir := t.TempDir()
		t.Setenv("RECSTORE_DIR", dataDir)

		ctx, err := ResolveRequired("tasks")
		require.NoError(t, err)
		assert.Equal(t, "tasks", ctx.Store)
	})
}
