package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/user/recstore/internal/value"
)

// SyncKey is the reserved key that carries a record's sync status when the
// record is serialized.
const SyncKey = "_sync"

// Record is a single item in a store: free-form fields plus the sync status
// the store tracks for it.
type Record struct {
	Fields map[string]any
	Status SyncStatus
}

// NewRecord wraps fields in an untracked record.
func NewRecord(fields map[string]any) *Record {
	return &Record{Fields: fields}
}

// ID returns the value of the identifier field. ok is false when the field
// is missing or nil.
func (r *Record) ID(field string) (any, bool) {
	v, ok := r.Fields[field]
	if !ok || value.Of(v) == value.Absent {
		return nil, false
	}
	return v, true
}

// HasID reports whether the identifier field of r equals id.
func (r *Record) HasID(field string, id any) bool {
	v, ok := r.ID(field)
	return ok && value.Equal(v, id)
}

// Active reports whether the record is visible to reads.
func (r *Record) Active() bool {
	return r.Status.Active()
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	return &Record{Fields: value.CloneFields(r.Fields), Status: r.Status}
}

// CalculateHash computes the SHA-256 hash of the record's fields.
// Returns the first 12 characters of the hex-encoded hash.
func (r *Record) CalculateHash() string {
	return CalculateHash(r.Fields)
}

// CalculateHash computes a deterministic hash from a map of fields.
// The reserved sync key is excluded so status changes do not alter the hash.
// Returns the first 12 characters of the hex-encoded SHA-256 hash.
func CalculateHash(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != SyncKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		v, _ := json.Marshal(fields[k])
		buf.WriteString(k)
		buf.WriteString(":")
		buf.Write(v)
		buf.WriteString("\n")
	}

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:])[:12]
}

// MarshalJSON flattens Fields into the output and adds the sync status
// under SyncKey when the record is tracked.
func (r *Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		m[k] = v
	}
	if r.Status != StatusUntracked {
		m[SyncKey] = r.Status.String()
	}
	return json.Marshal(m)
}

// UnmarshalJSON extracts the sync status and keeps every other key as a
// field. Numbers decode as json.Number so identifiers keep their exact text.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: expected a JSON object", ErrInvalidRecord)
	}

	r.Status = StatusUntracked
	if raw, ok := m[SyncKey]; ok {
		name, _ := raw.(string)
		status, err := ParseSyncStatus(name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		r.Status = status
		delete(m, SyncKey)
	}

	r.Fields = m
	return nil
}
