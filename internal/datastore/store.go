// Package datastore implements the in-memory record store.
//
// A Store keeps records in insertion order and upserts them by an
// identifier field. With sync tracking enabled every record carries a
// model.SyncStatus and deletes are logical: removed records stay in the
// store, hidden from reads, until they are purged.
//
// All methods are safe for concurrent use. Mutations take an exclusive lock
// for their whole read-modify-write sequence.
package datastore

import (
	"sync"

	"go.uber.org/zap"

	"github.com/user/recstore/internal/filter"
	"github.com/user/recstore/internal/model"
	"github.com/user/recstore/internal/value"
)

// Options configures a Store.
type Options struct {
	// RecordID names the identifier field. Defaults to "id".
	RecordID string
	// DataSync enables sync status tracking and logical deletes.
	DataSync bool
	// NewID generates identifiers for records saved without one while
	// DataSync is on. Defaults to model.NewRecordID.
	NewID func() string
	// Logger receives debug logs for mutations. Defaults to a no-op logger.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.RecordID == "" {
		o.RecordID = model.DefaultRecordID
	}
	if o.NewID == nil {
		o.NewID = model.NewRecordID
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Store is an ordered, identifier-keyed collection of records.
type Store struct {
	name string
	opts Options
	log  *zap.Logger

	mu      sync.RWMutex
	records []*model.Record // nil until the first save
}

// New creates an empty, uninitialized store.
func New(name string, opts Options) *Store {
	opts = opts.withDefaults()
	return &Store{
		name: name,
		opts: opts,
		log:  opts.Logger.With(zap.String("store", name)),
	}
}

// Load creates a store holding the given records, statuses included, in
// order. The records are copied. A nil slice leaves the store uninitialized.
func Load(name string, opts Options, records []model.Record) *Store {
	s := New(name, opts)
	if records == nil {
		return s
	}
	s.records = make([]*model.Record, 0, len(records))
	for i := range records {
		r := records[i].Clone()
		if !s.opts.DataSync {
			r.Status = model.StatusUntracked
		}
		s.records = append(s.records, r)
	}
	return s
}

// Name returns the store name.
func (s *Store) Name() string {
	return s.name
}

// RecordID returns the identifier field name.
func (s *Store) RecordID() string {
	return s.opts.RecordID
}

// DataSync reports whether sync tracking is enabled.
func (s *Store) DataSync() bool {
	return s.opts.DataSync
}

// Initialized reports whether anything has been saved since the store was
// created or last physically cleared.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records != nil
}

// Len returns the number of active records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.records {
		if r.Active() {
			n++
		}
	}
	return n
}

// Read returns every active record, or when id is non-nil only the active
// records whose identifier equals id.
func (s *Store) Read(id any) []map[string]any {
	if id == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.active()
	}
	return s.Filter(filter.Spec{s.opts.RecordID: id}, false)
}

// Filter returns the active records matching spec, in store order. With
// matchAny false every field of spec must match; with matchAny true one is
// enough. An empty spec returns every active record.
func (s *Store) Filter(spec filter.Spec, matchAny bool) []map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(spec) == 0 {
		return s.active()
	}

	out := []map[string]any{}
	for _, r := range s.records {
		if r.Active() && filter.Match(r.Fields, spec, matchAny) {
			out = append(out, value.CloneFields(r.Fields))
		}
	}
	return out
}

// Save upserts records by identifier and returns the active record set.
//
// Each incoming record replaces the active record with the same identifier
// in place, or is appended when there is none. With reset, or when the
// store has never been initialized, the previous contents are discarded
// first. A single record is saved as a one-element slice. Records are
// copied; the caller keeps ownership of its maps. The reserved model.SyncKey
// field is not stored, since the store owns it.
func (s *Store) Save(records []map[string]any, reset bool) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := reset || s.records == nil
	if fresh {
		s.records = make([]*model.Record, 0, len(records))
	}

	for _, fields := range records {
		if fields == nil {
			continue
		}
		fields = value.CloneFields(fields)
		delete(fields, model.SyncKey)
		s.upsert(fields, fresh)
	}

	s.log.Debug("saved records",
		zap.Int("count", len(records)),
		zap.Bool("reset", fresh))

	return s.active()
}

// upsert must be called with the write lock held.
func (s *Store) upsert(fields map[string]any, fresh bool) {
	rec := model.NewRecord(fields)

	if id, ok := rec.ID(s.opts.RecordID); ok {
		if i := s.indexOf(id); i >= 0 {
			// Within a reset batch nothing has been synced yet, so a
			// repeated identifier stays new.
			if s.opts.DataSync {
				rec.Status = model.StatusModified
				if fresh {
					rec.Status = model.StatusNew
				}
			}
			s.records[i] = rec
			return
		}
	} else if s.opts.DataSync {
		fields[s.opts.RecordID] = s.opts.NewID()
	}

	if s.opts.DataSync {
		rec.Status = model.StatusNew
	}
	s.records = append(s.records, rec)
}

// Remove deletes records and returns the active record set.
//
// With no targets every record is removed. A target is an identifier, a
// record map, a *model.Record or model.Record (whose identifier field is
// used), or a slice of those. Targets that resolve to no active record are
// skipped. Deletes are logical when sync tracking is on.
func (s *Store) Remove(targets ...any) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(targets) == 0 {
		s.clear()
		return s.active()
	}

	removed := 0
	for _, id := range s.resolveTargets(targets) {
		if i := s.indexOf(id); i >= 0 {
			s.removeAt(i)
			removed++
		}
	}

	s.log.Debug("removed records",
		zap.Int("targets", len(targets)),
		zap.Int("removed", removed))

	return s.active()
}

// resolveTargets flattens remove targets into identifier values.
func (s *Store) resolveTargets(targets []any) []any {
	var ids []any
	for _, t := range targets {
		switch v := t.(type) {
		case *model.Record:
			if v == nil {
				continue
			}
			if id, ok := v.ID(s.opts.RecordID); ok {
				ids = append(ids, id)
			}
			continue
		case model.Record:
			if id, ok := v.ID(s.opts.RecordID); ok {
				ids = append(ids, id)
			}
			continue
		}

		switch value.Of(t) {
		case value.Sequence:
			ids = append(ids, s.resolveTargets(value.Elements(t))...)
		case value.Mapping:
			if id, ok := model.NewRecord(value.Fields(t)).ID(s.opts.RecordID); ok {
				ids = append(ids, id)
			}
		case value.Scalar:
			ids = append(ids, t)
		}
	}
	return ids
}

// clear must be called with the write lock held.
func (s *Store) clear() {
	if !s.opts.DataSync {
		s.records = nil
		s.log.Debug("cleared store")
		return
	}
	for _, r := range s.records {
		r.Status = model.StatusRemoved
	}
	s.log.Debug("marked all records removed", zap.Int("count", len(s.records)))
}

// removeAt must be called with the write lock held.
func (s *Store) removeAt(i int) {
	if s.opts.DataSync {
		s.records[i].Status = model.StatusRemoved
		return
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
}

// indexOf returns the position of the active record with the given
// identifier, or -1.
func (s *Store) indexOf(id any) int {
	for i, r := range s.records {
		if r.Active() && r.HasID(s.opts.RecordID, id) {
			return i
		}
	}
	return -1
}

// active copies out the active records. Callers hold at least a read lock.
func (s *Store) active() []map[string]any {
	out := make([]map[string]any, 0, len(s.records))
	for _, r := range s.records {
		if r.Active() {
			out = append(out, value.CloneFields(r.Fields))
		}
	}
	return out
}
