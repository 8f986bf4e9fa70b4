// Package daemon keeps the SQLite cache in step with the JSONL files by
// watching the data directory and rebuilding a store's cache whenever its
// files change. A PID file guards against two watchers on one directory.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

var (
	// ErrPIDFileNotFound indicates the PID file does not exist.
	ErrPIDFileNotFound = errors.New("pid file not found")
	// ErrInvalidPID indicates the PID file contains invalid data.
	ErrInvalidPID = errors.New("invalid pid in file")
)

// WritePID writes pid to path, replacing any previous content.
func WritePID(path string, pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0644)
}

// ReadPID reads the PID from path.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrPIDFileNotFound
		}
		return 0, fmt.Errorf("reading pid file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, ErrInvalidPID
	}
	return pid, nil
}

// RemovePID removes the PID file. A missing file is not an error.
func RemovePID(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing pid file: %w", err)
	}
	return nil
}

// IsProcessRunning checks if a process with the given PID is running.
func IsProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix FindProcess always succeeds; signal 0 probes for existence.
	return process.Signal(syscall.Signal(0)) == nil
}

// CleanStalePID removes the PID file if it is unreadable or references a
// process that is no longer running. Returns true if the file was removed.
func CleanStalePID(path string) (bool, error) {
	pid, err := ReadPID(path)
	switch {
	case errors.Is(err, ErrPIDFileNotFound):
		return false, nil
	case errors.Is(err, ErrInvalidPID):
	case err != nil:
		return false, err
	case IsProcessRunning(pid):
		return false, nil
	}

	if err := RemovePID(path); err != nil {
		return false, err
	}
	return true, nil
}
