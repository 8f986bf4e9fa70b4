package cli

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestEnv creates a temp directory, changes into it and mocks the exit
// function. Environment variables that steer store resolution are cleared.
func setupTestEnv(t *testing.T) (tempDir string, cleanup func()) {
	t.Helper()
	tempDir = t.TempDir()
	origDir, _ := os.Getwd()
	os.Chdir(tempDir)

	t.Setenv("RECSTORE_DIR", "")
	t.Setenv("RECSTORE_DEFAULT", "")
	t.Setenv("RECSTORE_LOG_LEVEL", "")

	// Mock the exit function to capture exit code instead of exiting
	origExitFunc := ExitFunc
	ExitFunc = func(code int) {
		ExitCode = code
		// Don't actually exit in tests
	}
	ExitCode = 0
	resetFlags()

	cleanup = func() {
		os.Chdir(origDir)
		ExitFunc = origExitFunc
		ExitCode = 0
		resetFlags()
	}
	return tempDir, cleanup
}

// resetFlags resets global command flags for test isolation
func resetFlags() {
	jsonOutput = false
	yamlOutput = false
	storeName = ""
	quiet = false
	verbose = false

	initRecordID = "id"
	initSync = false
	saveReset = false
	rmAll = false
	filterAny = false
	dropYes = false

	rootCmd.SetIn(nil)
}

// run executes the root command with args and returns what it wrote to
// stdout. Flags are reset afterwards; ExitCode keeps the command's result.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, "", args...)
}

// runWithInput is run with stdin content.
func runWithInput(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	outC := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		outC <- string(data)
	}()

	if stdin != "" {
		rootCmd.SetIn(strings.NewReader(stdin))
	}
	rootCmd.SetArgs(args)
	execErr := rootCmd.Execute()

	w.Close()
	os.Stdout = oldStdout
	output := <-outC

	resetFlags()
	return output, execErr
}

// mustRun runs a command that must succeed.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err)
	require.Zero(t, ExitCode, "command %v exited with %d: %s", args, ExitCode, out)
	return out
}

// setupTestStore creates a store in a fresh environment.
func setupTestStore(t *testing.T, name string, initArgs ...string) (tempDir string, cleanup func()) {
	t.Helper()
	tempDir, cleanup = setupTestEnv(t)
	mustRun(t, append([]string{"init", name}, initArgs...)...)
	return tempDir, cleanup
}

// decodeRecords parses a JSON array of records.
func decodeRecords(t *testing.T, out string) []map[string]any {
	t.Helper()
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records), "output: %s", out)
	return records
}

// fieldValues collects one field from each record.
func fieldValues(records []map[string]any, field string) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r[field]
	}
	return out
}
