package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/recstore/internal/model"
)

// ConfigStore manages per-store configuration files.
type ConfigStore struct {
	baseDir string // data directory
}

// NewConfigStore creates a new config store.
func NewConfigStore(baseDir string) *ConfigStore {
	return &ConfigStore{baseDir: baseDir}
}

// getConfigPath returns the path to config.json for a store.
func (s *ConfigStore) getConfigPath(name string) string {
	return filepath.Join(s.baseDir, name, "config.json")
}

// getStoreDir returns the store directory path.
func (s *ConfigStore) getStoreDir(name string) string {
	return filepath.Join(s.baseDir, name)
}

// WriteConfig writes a store configuration to config.json.
func (s *ConfigStore) WriteConfig(cfg *model.StoreConfig) error {
	dir := s.getStoreDir(cfg.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(dir, "config-*.tmp", s.getConfigPath(cfg.Name), data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ReadConfig reads a store configuration from config.json.
func (s *ConfigStore) ReadConfig(name string) (*model.StoreConfig, error) {
	data, err := os.ReadFile(s.getConfigPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg model.StoreConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg = cfg.WithDefaults()
	return &cfg, nil
}

// DeleteConfig removes a store's directory, records included.
func (s *ConfigStore) DeleteConfig(name string) error {
	if err := os.RemoveAll(s.getStoreDir(name)); err != nil {
		return fmt.Errorf("failed to delete store directory: %w", err)
	}
	return nil
}

// Exists returns true if the store config exists.
func (s *ConfigStore) Exists(name string) bool {
	_, err := os.Stat(s.getConfigPath(name))
	return err == nil
}

// ListStoreDirs returns the names of all directories holding a config.json.
func (s *ConfigStore) ListStoreDirs() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !isHiddenOrMeta(entry.Name()) && s.Exists(entry.Name()) {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

// isHiddenOrMeta returns true for hidden or meta directories.
func isHiddenOrMeta(name string) bool {
	return name[0] == '.' || name[0] == '_'
}

// writeFileAtomic writes data to a temp file in dir and renames it over path.
func writeFileAtomic(dir, pattern, path string, data []byte) error {
	tmpFile, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) // Clean up on error

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
