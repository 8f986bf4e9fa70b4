package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncStatus(t *testing.T) {
	tests := []struct {
		status SyncStatus
		name   string
		active bool
	}{
		{StatusUntracked, "", true},
		{StatusNew, "new", true},
		{StatusModified, "modified", true},
		{StatusRemoved, "removed", false},
	}

	for _, tt := range tests {
		t.Run("status "+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.status.String())
			assert.Equal(t, tt.active, tt.status.Active())

			parsed, err := ParseSyncStatus(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.status, parsed)

			data, err := json.Marshal(tt.status)
			require.NoError(t, err)

			var decoded SyncStatus
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.status, decoded)
		})
	}

	t.Run("unknown name", func(t *testing.T) {
		_, err := ParseSyncStatus("stale")
		assert.Error(t, err)
		assert.Equal(t, "SyncStatus(9)", SyncStatus(9).String())
	})
}
