package cli

import (
	"fmt"

	"github.com/user/recstore/internal/context"
	"github.com/user/recstore/internal/datastore"
	"github.com/user/recstore/internal/storage"
)

// session is the resolved context, storage and selected store for one command.
type session struct {
	ctx   *context.Context
	store *storage.Store
	ds    *datastore.Store
}

// openStorage resolves the data directory and opens storage without
// selecting a store.
func openStorage() (*context.Context, *storage.Store, error) {
	ctx, err := context.Resolve(GetStoreName())
	if err != nil {
		return nil, nil, err
	}
	if ctx.DataDir == "" {
		return nil, nil, context.ErrNoDataDir
	}

	store, err := storage.NewStore(ctx.DataDir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return ctx, store, nil
}

// openSession resolves the selected store and loads it.
func openSession() (*session, error) {
	ctx, err := context.ResolveRequired(GetStoreName())
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(ctx.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ds, err := store.Open(ctx.Store)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &session{ctx: ctx, store: store, ds: ds}, nil
}

// commit persists the session's store.
func (s *session) commit() error {
	if err := s.store.Commit(s.ds); err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}
	return nil
}

// Close releases the session's storage.
func (s *session) Close() error {
	return s.store.Close()
}

// selectedStore returns the store name for error messages before a session
// exists.
func selectedStore() string {
	if name := GetStoreName(); name != "" {
		return name
	}
	ctx, _ := context.Resolve("")
	return ctx.Store
}
