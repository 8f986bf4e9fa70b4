package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/user/recstore/internal/datastore"
	"github.com/user/recstore/internal/model"
)

// DefaultDirName is the name of the data directory.
const DefaultDirName = ".recstore"

// Store implements the Storage interface using JSONL files and SQLite cache.
type Store struct {
	baseDir string // data directory
	jsonl   *JSONLStore
	sqlite  *SQLiteCache
	config  *ConfigStore
	log     *zap.Logger
}

var _ Storage = (*Store)(nil)

// NewStore creates a new storage instance. A nil logger disables logging.
func NewStore(baseDir string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}

	sqlite, err := NewSQLiteCache(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite cache: %w", err)
	}

	return &Store{
		baseDir: baseDir,
		jsonl:   NewJSONLStore(baseDir),
		sqlite:  sqlite,
		config:  NewConfigStore(baseDir),
		log:     log,
	}, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.sqlite.Close()
}

// BaseDir returns the base directory path.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// CreateStore creates a new, empty store.
func (s *Store) CreateStore(cfg *model.StoreConfig) error {
	c := cfg.WithDefaults()
	if err := c.Validate(); err != nil {
		return err
	}

	if s.config.Exists(c.Name) {
		return model.ErrStoreExists
	}

	if c.Created.IsZero() {
		c.Created = time.Now().UTC()
	}

	if err := s.config.WriteConfig(&c); err != nil {
		return err
	}

	if err := s.sqlite.UpsertConfig(&c); err != nil {
		// Rollback config on failure
		s.config.DeleteConfig(c.Name)
		return err
	}

	*cfg = c
	s.log.Info("created store",
		zap.String("store", c.Name),
		zap.String("record_id", c.RecordID),
		zap.Bool("data_sync", c.DataSync))
	return nil
}

// DropStore removes a store and all its data.
func (s *Store) DropStore(name string) error {
	if !s.config.Exists(name) {
		return model.ErrStoreNotFound
	}

	if err := s.sqlite.DropStore(name); err != nil {
		return err
	}

	// Delete store directory (includes JSONL)
	if err := s.config.DeleteConfig(name); err != nil {
		return err
	}

	s.log.Info("dropped store", zap.String("store", name))
	return nil
}

// GetConfig retrieves a store's configuration.
func (s *Store) GetConfig(name string) (*model.StoreConfig, error) {
	// Try SQLite cache first
	cfg, err := s.sqlite.GetConfig(name)
	if err == nil {
		return cfg, nil
	}

	// Fall back to config file
	return s.config.ReadConfig(name)
}

// ListStores returns all store configurations, ordered by name.
func (s *Store) ListStores() ([]*model.StoreConfig, error) {
	// Try SQLite cache first
	configs, err := s.sqlite.ListConfigs()
	if err == nil && len(configs) > 0 {
		return configs, nil
	}

	// Fall back to config files
	names, err := s.config.ListStoreDirs()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	configs = make([]*model.StoreConfig, 0, len(names))
	for _, name := range names {
		cfg, err := s.config.ReadConfig(name)
		if err != nil {
			continue // Skip invalid configs
		}
		configs = append(configs, cfg)
	}

	return configs, nil
}

// Open loads a store's snapshot into an in-memory datastore.
func (s *Store) Open(name string) (*datastore.Store, error) {
	cfg, err := s.config.ReadConfig(name)
	if err != nil {
		return nil, err
	}

	records, err := s.jsonl.ReadAllRecords(name)
	if err != nil {
		return nil, err
	}

	return datastore.Load(name, datastore.Options{
		RecordID: cfg.RecordID,
		DataSync: cfg.DataSync,
		Logger:   s.log,
	}, records), nil
}

// Commit writes a datastore's records back to its snapshot and refreshes
// the cache. The snapshot is authoritative; a cache failure is logged and
// left for RebuildCache to repair.
func (s *Store) Commit(ds *datastore.Store) error {
	cfg, err := s.config.ReadConfig(ds.Name())
	if err != nil {
		return err
	}

	records := ds.Records()
	if err := s.jsonl.WriteAllRecords(ds.Name(), records); err != nil {
		return err
	}

	if err := s.sqlite.UpsertConfig(cfg); err != nil {
		s.log.Warn("cache config update failed", zap.String("store", cfg.Name), zap.Error(err))
		return nil
	}
	if err := s.sqlite.ReplaceRecords(cfg, records); err != nil {
		s.log.Warn("cache refresh failed", zap.String("store", cfg.Name), zap.Error(err))
	}
	return nil
}

// RebuildCache rebuilds a store's SQLite cache from its files. When the
// store no longer exists on disk its cache entries are dropped and
// model.ErrStoreNotFound is returned.
func (s *Store) RebuildCache(name string) error {
	cfg, err := s.config.ReadConfig(name)
	if errors.Is(err, model.ErrStoreNotFound) {
		if dropErr := s.sqlite.DropStore(name); dropErr != nil {
			return dropErr
		}
		return err
	}
	if err != nil {
		return err
	}

	records, err := s.jsonl.ReadAllRecords(name)
	if err != nil {
		return err
	}

	if err := s.sqlite.UpsertConfig(cfg); err != nil {
		return err
	}
	if err := s.sqlite.ReplaceRecords(cfg, records); err != nil {
		return err
	}

	s.log.Debug("rebuilt cache", zap.String("store", name), zap.Int("records", len(records)))
	return nil
}

// RebuildAll rebuilds the cache for every store on disk and drops cache
// entries for stores that no longer exist. It returns the rebuilt names.
func (s *Store) RebuildAll() ([]string, error) {
	names, err := s.config.ListStoreDirs()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	onDisk := make(map[string]bool, len(names))
	for _, name := range names {
		onDisk[name] = true
		if err := s.RebuildCache(name); err != nil {
			return nil, fmt.Errorf("failed to rebuild %s: %w", name, err)
		}
	}

	cached, err := s.sqlite.ListConfigs()
	if err != nil {
		return nil, err
	}
	for _, cfg := range cached {
		if !onDisk[cfg.Name] {
			if err := s.sqlite.DropStore(cfg.Name); err != nil {
				return nil, err
			}
			s.log.Debug("dropped stale cache entry", zap.String("store", cfg.Name))
		}
	}

	return names, nil
}

// CountRecords returns the number of active records in a store's cache.
func (s *Store) CountRecords(name string) (int, error) {
	return s.sqlite.CountRecords(name)
}

// GetLastSyncTime returns the last time any store's cache was refreshed.
func (s *Store) GetLastSyncTime() (time.Time, error) {
	return s.sqlite.GetLastSyncTime()
}

// RawQuery executes a raw SQL query against the cache.
func (s *Store) RawQuery(query string) ([]map[string]interface{}, []string, error) {
	return s.sqlite.RawQuery(query)
}

// DefaultBaseDir returns the data directory from $RECSTORE_DIR, or
// ~/.recstore when unset.
func DefaultBaseDir() string {
	if dir := os.Getenv("RECSTORE_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}
