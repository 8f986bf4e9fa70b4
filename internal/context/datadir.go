package context

import (
	"os"
	"path/filepath"
)

// DataDirName is the name of the data directory searched for.
const DataDirName = ".recstore"

// FindDataDir returns the data directory:
// 1. $RECSTORE_DIR if set
// 2. The nearest .recstore in the current directory or its parents
// Returns empty string if not found
func FindDataDir() string {
	if dir := os.Getenv("RECSTORE_DIR"); dir != "" {
		return dir
	}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findDataDirFrom(dir)
}

// findDataDirFrom searches for .recstore starting from the given directory
// and walking up to the root.
func findDataDirFrom(startDir string) string {
	dir := startDir
	for {
		dataPath := filepath.Join(dir, DataDirName)
		if info, err := os.Stat(dataPath); err == nil && info.IsDir() {
			return dataPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			return ""
		}
		dir = parent
	}
}

// DefaultStore returns the default store name:
// 1. $RECSTORE_DEFAULT environment variable if set
// 2. Only store if exactly one exists
// 3. Empty string (requires --store flag)
func DefaultStore(dataDir string) string {
	if defaultStore := os.Getenv("RECSTORE_DEFAULT"); defaultStore != "" {
		return defaultStore
	}

	if dataDir == "" {
		return ""
	}

	stores := listStores(dataDir)
	if len(stores) == 1 {
		return stores[0]
	}

	return ""
}

// listStores returns the store names in the given data directory.
// Each store is a subdirectory holding a config.json.
func listStores(dataDir string) []string {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil
	}

	var stores []string
	for _, entry := range entries {
		if !entry.IsDir() || isHiddenFile(entry.Name()) {
			continue
		}
		if _, err := os.Stat(filepath.Join(dataDir, entry.Name(), "config.json")); err == nil {
			stores = append(stores, entry.Name())
		}
	}
	return stores
}

// isHiddenFile returns true if the filename starts with a dot or underscore
func isHiddenFile(name string) bool {
	return len(name) > 0 && (name[0] == '.' || name[0] == '_')
}
