package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRm(t *testing.T) {
	t.Run("physical delete without sync", func(t *testing.T) {
		_, cleanup := setupTestStore(t, "tasks")
		defer cleanup()
		mustRun(t, "save", `[{"id": 1}, {"id": 2}, {"id": 3}]`)

		out := mustRun(t, "rm", "2", "9", "--json")
		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, float64(1), result["removed"])
		assert.Equal(t, float64(2), result["active"])

		records := decodeRecords(t, mustRun(t, "read", "--json"))
		assert.Equal(t, []any{float64(1), float64(3)}, fieldValues(records, "id"))
		assert.Empty(t, decodeRecords(t, mustRun(t, "pending", "--json")))
	})

	t.Run("logical delete with sync", func(t *testing.T) {
		_, cleanup := setupTestStore(t, "tasks", "--sync")
		defer cleanup()
		mustRun(t, "save", `[{"id": 1}, {"id": 2}]`)

		out := mustRun(t, "rm", "1")
		assert.Contains(t, out, "Removed 1 record(s) from 'tasks' (1 active)")

		records := decodeRecords(t, mustRun(t, "read", "--json"))
		assert.Equal(t, []any{float64(2)}, fieldValues(records, "id"))

		pending := decodeRecords(t, mustRun(t, "pending", "--json"))
		assert.Equal(t, []any{float64(1), float64(2)}, fieldValues(pending, "id"))
		assert.Equal(t, []any{"removed", "new"}, fieldValues(pending, "_sync"))
	})

	t.Run("all", func(t *testing.T) {
		_, cleanup := setupTestStore(t, "tasks")
		defer cleanup()
		mustRun(t, "save", `[{"id": 1}, {"id": 2}]`)

		mustRun(t, "rm", "--all")
		assert.Contains(t, mustRun(t, "read"), "No records.")
	})

	t.Run("needs ids or --all", func(t *testing.T) {
		_, cleanup := setupTestStore(t, "tasks")
		defer cleanup()

		_, err := run(t, "rm")
		require.NoError(t, err)
		assert.Equal(t, exitValidation, ExitCode)

		ExitCode = 0
		_, err = run(t, "rm", "1", "--all")
		require.NoError(t, err)
		assert.Equal(t, exitValidation, ExitCode)
	})
}

func TestPendingAndPurge(t *testing.T) {
	_, cleanup := setupTestStore(t, "tasks", "--sync")
	defer cleanup()

	mustRun(t, "save", `[{"id": 1}, {"id": 2}, {"id": 3}]`)
	mustRun(t, "save", `{"id": 2, "done": true}`)
	mustRun(t, "rm", "3")

	pending := decodeRecords(t, mustRun(t, "pending", "--json"))
	assert.Equal(t, []any{"new", "modified", "removed"}, fieldValues(pending, "_sync"))

	out := mustRun(t, "purge", "--json")
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, float64(1), result["purged"])

	pending = decodeRecords(t, mustRun(t, "pending", "--json"))
	assert.Equal(t, []any{float64(1), float64(2)}, fieldValues(pending, "id"))

	assert.Contains(t, mustRun(t, "purge"), "Purged 0 record(s)")
}
