package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/user/recstore/internal/model"
)

// CacheFile is the SQLite cache file name inside the data directory.
const CacheFile = "cache.db"

// SQLiteCache mirrors every store's snapshot into SQLite so records can be
// inspected with SQL. It is rebuildable from the JSONL files at any time.
type SQLiteCache struct {
	db      *sql.DB
	dbPath  string
	baseDir string // data directory
}

// NewSQLiteCache creates a new SQLite cache.
func NewSQLiteCache(baseDir string) (*SQLiteCache, error) {
	dbPath := filepath.Join(baseDir, CacheFile)

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	cache := &SQLiteCache{
		db:      db,
		dbPath:  dbPath,
		baseDir: baseDir,
	}

	if err := cache.initTables(); err != nil {
		db.Close()
		return nil, err
	}

	return cache, nil
}

// initTables creates the metadata and records tables if they don't exist.
func (c *SQLiteCache) initTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _store_meta (
			store_name TEXT PRIMARY KEY,
			record_id TEXT NOT NULL,
			data_sync INTEGER NOT NULL DEFAULT 0,
			config_json TEXT,
			last_sync TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			store_name TEXT NOT NULL,
			position INTEGER NOT NULL,
			record_key TEXT,
			sync_status TEXT,
			hash TEXT NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (store_name, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_key ON records(store_name, record_key)`,
		`CREATE INDEX IF NOT EXISTS idx_records_status ON records(store_name, sync_status)`,
	}

	for _, stmt := range stmts {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create cache tables: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (c *SQLiteCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// UpsertConfig stores a store's configuration in the metadata table.
func (c *SQLiteCache) UpsertConfig(cfg *model.StoreConfig) error {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	_, err = c.db.Exec(`
		INSERT INTO _store_meta (store_name, record_id, data_sync, config_json)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(store_name) DO UPDATE SET
			record_id = excluded.record_id,
			data_sync = excluded.data_sync,
			config_json = excluded.config_json
	`, cfg.Name, cfg.RecordID, cfg.DataSync, string(configJSON))
	if err != nil {
		return fmt.Errorf("failed to update store config: %w", err)
	}
	return nil
}

// GetConfig retrieves a store's configuration from the metadata table.
func (c *SQLiteCache) GetConfig(name string) (*model.StoreConfig, error) {
	var configJSON string
	err := c.db.QueryRow(`SELECT config_json FROM _store_meta WHERE store_name = ?`, name).Scan(&configJSON)
	if err == sql.ErrNoRows {
		return nil, model.ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store config: %w", err)
	}

	var cfg model.StoreConfig
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg = cfg.WithDefaults()
	return &cfg, nil
}

// ListConfigs returns every cached store configuration, ordered by name.
func (c *SQLiteCache) ListConfigs() ([]*model.StoreConfig, error) {
	rows, err := c.db.Query(`SELECT config_json FROM _store_meta ORDER BY store_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	var configs []*model.StoreConfig
	for rows.Next() {
		var configJSON string
		if err := rows.Scan(&configJSON); err != nil {
			return nil, fmt.Errorf("failed to scan store config: %w", err)
		}
		var cfg model.StoreConfig
		if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
			continue // Skip invalid configs
		}
		cfg = cfg.WithDefaults()
		configs = append(configs, &cfg)
	}

	return configs, rows.Err()
}

// DropStore removes a store's metadata and cached records.
func (c *SQLiteCache) DropStore(name string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM records WHERE store_name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete cached records: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM _store_meta WHERE store_name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete store metadata: %w", err)
	}

	return tx.Commit()
}

// ReplaceRecords swaps a store's cached records for the given snapshot in
// one transaction and stamps the store's last sync time.
func (c *SQLiteCache) ReplaceRecords(cfg *model.StoreConfig, records []model.Record) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM records WHERE store_name = ?`, cfg.Name); err != nil {
		return fmt.Errorf("failed to clear cached records: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO records (store_name, position, record_key, sync_status, hash, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		r := &records[i]
		data, err := json.Marshal(r.Fields)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}

		var key interface{}
		if id, ok := r.ID(cfg.RecordID); ok {
			key = recordKey(id)
		}

		if _, err := stmt.Exec(cfg.Name, i, key, nullString(r.Status.String()), r.CalculateHash(), string(data)); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`UPDATE _store_meta SET last_sync = ? WHERE store_name = ?`, now, cfg.Name); err != nil {
		return fmt.Errorf("failed to update last sync: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// recordKey renders an identifier for the record_key column. Strings are
// stored as-is, anything else as its JSON encoding.
func recordKey(id any) string {
	if s, ok := id.(string); ok {
		return s
	}
	b, err := json.Marshal(id)
	if err != nil {
		return fmt.Sprint(id)
	}
	return string(b)
}

// CountRecords returns the number of active cached records in a store.
func (c *SQLiteCache) CountRecords(name string) (int, error) {
	var count int
	err := c.db.QueryRow(`
		SELECT COUNT(*) FROM records
		WHERE store_name = ? AND (sync_status IS NULL OR sync_status != 'removed')
	`, name).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// GetLastSyncTime returns the most recent last_sync time from all stores.
func (c *SQLiteCache) GetLastSyncTime() (time.Time, error) {
	var lastSyncStr sql.NullString
	err := c.db.QueryRow(`SELECT MAX(last_sync) FROM _store_meta`).Scan(&lastSyncStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last sync time: %w", err)
	}

	if !lastSyncStr.Valid || lastSyncStr.String == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.RFC3339, lastSyncStr.String)
}

// nullString converts empty string to sql.NullString.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// RawQuery executes a raw SQL SELECT query and returns results.
// Only SELECT queries should be passed to this function.
func (c *SQLiteCache) RawQuery(query string) ([]map[string]interface{}, []string, error) {
	rows, err := c.db.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, nil, fmt.Errorf("scan failed: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			val := values[i]
			// Convert []byte to string for readability
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row[col] = val
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return results, columns, nil
}
