// Package storage provides persistent storage for record stores.
//
// Each store lives in its own directory under the data directory, with its
// configuration in config.json and a snapshot of its records in
// records.jsonl. The JSONL files are the source of truth; a SQLite cache
// mirrors them for SQL queries and can be rebuilt at any time.
package storage

import (
	"github.com/user/recstore/internal/datastore"
	"github.com/user/recstore/internal/model"
)

// Storage defines the interface for record store persistence.
type Storage interface {
	// Store management
	CreateStore(cfg *model.StoreConfig) error
	DropStore(name string) error
	GetConfig(name string) (*model.StoreConfig, error)
	ListStores() ([]*model.StoreConfig, error)

	// Record snapshots
	Open(name string) (*datastore.Store, error)
	Commit(ds *datastore.Store) error

	// Cache operations
	RebuildCache(name string) error
	CountRecords(name string) (int, error)
	RawQuery(query string) ([]map[string]interface{}, []string, error)

	// Close releases resources.
	Close() error
}
