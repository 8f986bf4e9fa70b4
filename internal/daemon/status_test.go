package daemon

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles_Paths(t *testing.T) {
	f := NewFiles("/data/.recstore")
	assert.Equal(t, "/data/.recstore", f.BaseDir())
	assert.Equal(t, "/data/.recstore/watch.pid", f.PIDFile())
	assert.Equal(t, "/data/.recstore/watch.status", f.StatusFile())
}

func TestFiles_IsRunning(t *testing.T) {
	t.Run("no pid file", func(t *testing.T) {
		running, pid := NewFiles(t.TempDir()).IsRunning()
		assert.False(t, running)
		assert.Zero(t, pid)
	})

	t.Run("live process", func(t *testing.T) {
		f := NewFiles(t.TempDir())
		require.NoError(t, WritePID(f.PIDFile(), os.Getpid()))

		running, pid := f.IsRunning()
		assert.True(t, running)
		assert.Equal(t, os.Getpid(), pid)
	})

	t.Run("stale pid is cleaned", func(t *testing.T) {
		f := NewFiles(t.TempDir())
		require.NoError(t, WritePID(f.PIDFile(), deadPID))

		running, _ := f.IsRunning()
		assert.False(t, running)
		assert.NoFileExists(t, f.PIDFile())
	})
}

func TestFiles_GetStatus(t *testing.T) {
	t.Run("not running", func(t *testing.T) {
		status, err := NewFiles(t.TempDir()).GetStatus()
		require.NoError(t, err)
		assert.False(t, status.Running)
	})

	t.Run("running without status file", func(t *testing.T) {
		f := NewFiles(t.TempDir())
		require.NoError(t, WritePID(f.PIDFile(), os.Getpid()))

		status, err := f.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Running)
		assert.Equal(t, os.Getpid(), status.PID)
	})

	t.Run("running with status file", func(t *testing.T) {
		f := NewFiles(t.TempDir())
		require.NoError(t, WritePID(f.PIDFile(), os.Getpid()))
		start := time.Now().Add(-time.Minute)
		require.NoError(t, f.writeStatus(&Status{StartTime: start, StoresWatched: 3, Rebuilds: 7}))

		status, err := f.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Running)
		assert.Equal(t, 3, status.StoresWatched)
		assert.Equal(t, 7, status.Rebuilds)
		assert.GreaterOrEqual(t, status.UptimeSeconds, int64(59))
	})
}

func TestFiles_StopNotRunning(t *testing.T) {
	f := NewFiles(t.TempDir())
	require.NoError(t, WritePID(f.PIDFile(), deadPID))

	require.NoError(t, f.Stop(time.Second))
	assert.NoFileExists(t, f.PIDFile())
}
