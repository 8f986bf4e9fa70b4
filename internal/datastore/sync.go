package datastore

import (
	"go.uber.org/zap"

	"github.com/user/recstore/internal/model"
)

// Records returns a copy of every record, removed ones included, with its
// sync status. Returns nil for an uninitialized store.
func (s *Store) Records() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.records == nil {
		return nil
	}
	out := make([]model.Record, len(s.records))
	for i, r := range s.records {
		out[i] = *r.Clone()
	}
	return out
}

// Pending returns a copy of every record that carries a sync status, in
// store order.
func (s *Store) Pending() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Record{}
	for _, r := range s.records {
		if r.Status != model.StatusUntracked {
			out = append(out, *r.Clone())
		}
	}
	return out
}

// Purge physically drops logically removed records and returns how many
// were dropped.
func (s *Store) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	dropped := 0
	for _, r := range s.records {
		if r.Active() {
			kept = append(kept, r)
			continue
		}
		dropped++
	}
	s.records = kept

	s.log.Debug("purged removed records", zap.Int("count", dropped))
	return dropped
}
