package daemon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

const (
	// DefaultPIDFile is the default name for the PID file.
	DefaultPIDFile = "watch.pid"
	// DefaultStatusFile is the default name for the status file.
	DefaultStatusFile = "watch.status"
)

// Status represents the current state of the watcher process.
type Status struct {
	Running       bool      `json:"running"`
	PID           int       `json:"pid,omitempty"`
	StartTime     time.Time `json:"start_time,omitempty"`
	UptimeSeconds int64     `json:"uptime_seconds,omitempty"`
	LastSync      time.Time `json:"last_sync,omitempty"`
	StoresWatched int       `json:"stores_watched,omitempty"`
	Rebuilds      int       `json:"rebuilds,omitempty"`
}

// Files locates the watcher's PID and status files in a data directory.
type Files struct {
	baseDir    string
	pidFile    string
	statusFile string
}

// NewFiles creates a Files for the given data directory.
func NewFiles(baseDir string) *Files {
	return &Files{
		baseDir:    baseDir,
		pidFile:    filepath.Join(baseDir, DefaultPIDFile),
		statusFile: filepath.Join(baseDir, DefaultStatusFile),
	}
}

// BaseDir returns the data directory.
func (f *Files) BaseDir() string {
	return f.baseDir
}

// PIDFile returns the path to the PID file.
func (f *Files) PIDFile() string {
	return f.pidFile
}

// StatusFile returns the path to the status file.
func (f *Files) StatusFile() string {
	return f.statusFile
}

// IsRunning checks if a watcher is currently running.
// Returns (running, pid).
func (f *Files) IsRunning() (bool, int) {
	// Clean stale PID file first
	cleaned, _ := CleanStalePID(f.pidFile)
	if cleaned {
		return false, 0
	}

	pid, err := ReadPID(f.pidFile)
	if err != nil {
		return false, 0
	}

	return IsProcessRunning(pid), pid
}

// Stop asks a running watcher to shut down and waits up to timeout for it
// to exit. Returns nil if no watcher is running.
func (f *Files) Stop(timeout time.Duration) error {
	running, pid := f.IsRunning()
	if !running {
		_ = RemovePID(f.pidFile)
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		_ = RemovePID(f.pidFile)
		return nil
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		// Process might have already exited
		_ = RemovePID(f.pidFile)
		return nil
	}

	// The watcher is not our child, so poll instead of Wait.
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !IsProcessRunning(pid) {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if IsProcessRunning(pid) {
		return fmt.Errorf("watcher (pid %d) did not stop within %s", pid, timeout)
	}

	if err := RemovePID(f.pidFile); err != nil {
		return err
	}
	_ = os.Remove(f.statusFile)

	return nil
}

// GetStatus returns the current watcher status.
func (f *Files) GetStatus() (*Status, error) {
	running, pid := f.IsRunning()
	if !running {
		return &Status{Running: false}, nil
	}

	status, err := f.readStatus()
	if err != nil {
		// Return basic status if file not available
		return &Status{Running: true, PID: pid}, nil
	}

	status.Running = true
	status.PID = pid
	if !status.StartTime.IsZero() {
		status.UptimeSeconds = int64(time.Since(status.StartTime).Seconds())
	}

	return status, nil
}

// readStatus reads the status from the status file.
func (f *Files) readStatus() (*Status, error) {
	data, err := os.ReadFile(f.statusFile)
	if err != nil {
		return nil, err
	}

	var status Status
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

// writeStatus writes the status to the status file.
func (f *Files) writeStatus(status *Status) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}

	return os.WriteFile(f.statusFile, data, 0644)
}

// removeStatus deletes the status file.
func (f *Files) removeStatus() {
	_ = os.Remove(f.statusFile)
}
