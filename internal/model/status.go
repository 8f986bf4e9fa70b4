package model

import (
	"encoding/json"
	"fmt"
)

// SyncStatus tracks local changes to a record that have not yet been
// synchronized anywhere. Only stores with sync tracking enabled tag records.
type SyncStatus int

const (
	// StatusUntracked means the record carries no sync tag.
	StatusUntracked SyncStatus = iota
	// StatusNew marks a record inserted since the last sync.
	StatusNew
	// StatusModified marks a record updated in place.
	StatusModified
	// StatusRemoved marks a logically deleted record. It is hidden from
	// reads but kept until purged.
	StatusRemoved
)

var statusNames = map[SyncStatus]string{
	StatusUntracked: "",
	StatusNew:       "new",
	StatusModified:  "modified",
	StatusRemoved:   "removed",
}

// String returns the wire name of the status. Untracked is the empty string.
func (s SyncStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SyncStatus(%d)", int(s))
}

// Active reports whether a record with this status is visible to reads.
func (s SyncStatus) Active() bool {
	return s != StatusRemoved
}

// ParseSyncStatus parses a wire name produced by String.
func ParseSyncStatus(name string) (SyncStatus, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return StatusUntracked, fmt.Errorf("unknown sync status %q", name)
}

// MarshalJSON encodes the status as its wire name.
func (s SyncStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a wire name.
func (s *SyncStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSyncStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
