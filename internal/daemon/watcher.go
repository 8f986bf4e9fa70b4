package daemon

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/user/recstore/internal/model"
)

const (
	// DefaultDebounceInterval is the default interval to wait after the last change before triggering a rebuild.
	DefaultDebounceInterval = 100 * time.Millisecond
)

// RebuildFunc is called when a store's cache needs to be rebuilt.
type RebuildFunc func(storeName string) error

// Watcher monitors the data directory for changes and triggers cache rebuilds.
type Watcher struct {
	baseDir          string
	rebuildFn        RebuildFunc
	log              *zap.Logger
	debounceInterval time.Duration

	watcher   *fsnotify.Watcher
	stopChan  chan struct{}
	doneChan  chan struct{}
	closeOnce sync.Once

	// debounce state per store
	mu              sync.Mutex
	pendingRebuilds map[string]*time.Timer
	closed          bool
}

// NewWatcher creates a new file watcher for the given data directory.
// rebuildFn is called when a store needs cache rebuilding.
// log may be nil for no logging.
func NewWatcher(baseDir string, rebuildFn RebuildFunc, log *zap.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Watcher{
		baseDir:          filepath.Clean(baseDir),
		rebuildFn:        rebuildFn,
		log:              log,
		debounceInterval: DefaultDebounceInterval,
		watcher:          fsWatcher,
		stopChan:         make(chan struct{}),
		doneChan:         make(chan struct{}),
		pendingRebuilds:  make(map[string]*time.Timer),
	}, nil
}

// SetDebounceInterval changes the debounce interval. Call before Start.
func (w *Watcher) SetDebounceInterval(d time.Duration) {
	w.debounceInterval = d
}

// Start begins watching for file changes.
func (w *Watcher) Start() error {
	// Watch the data directory for new and removed store directories
	if err := w.addWatchIfExists(w.baseDir); err != nil {
		w.log.Warn("could not watch data directory", zap.String("dir", w.baseDir), zap.Error(err))
	}

	if err := w.watchExistingStores(); err != nil {
		w.log.Warn("could not watch existing stores", zap.Error(err))
	}

	go w.processEvents()

	return nil
}

// Close stops the watcher and cleans up resources.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()

		// Cancel any pending debounce timers
		w.mu.Lock()
		w.closed = true
		for _, timer := range w.pendingRebuilds {
			timer.Stop()
		}
		w.pendingRebuilds = nil
		w.mu.Unlock()

		// Wait for event processing to finish
		<-w.doneChan
	})
}

// watchExistingStores adds watches for all existing store directories.
func (w *Watcher) watchExistingStores() error {
	entries, err := os.ReadDir(w.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Data directory doesn't exist yet
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() && !isIgnoredDir(entry.Name()) {
			w.watchStoreDir(filepath.Join(w.baseDir, entry.Name()))
		}
	}

	return nil
}

func (w *Watcher) watchStoreDir(dir string) {
	if err := w.watcher.Add(dir); err != nil {
		w.log.Warn("could not watch store directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	w.log.Debug("watching store directory", zap.String("dir", dir))
}

// addWatchIfExists adds a watch for a directory if it exists.
func (w *Watcher) addWatchIfExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil // Directory doesn't exist, no error
	}
	return w.watcher.Add(path)
}

// processEvents handles filesystem events.
func (w *Watcher) processEvents() {
	defer close(w.doneChan)

	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	filename := filepath.Base(path)
	parentDir := filepath.Dir(path)

	if parentDir == w.baseDir {
		if isIgnoredDir(filename) {
			return
		}
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.watchStoreDir(path)
			}
			return
		}
		// A store directory went away; its cache entries must follow.
		if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			w.scheduleRebuild(filename)
		}
		return
	}

	if !w.isWatchedFile(filename) {
		return
	}

	// Atomic writes land as a Create of the final name
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
		return
	}

	storeName := w.extractStoreName(path)
	if storeName == "" {
		return
	}

	w.log.Debug("file change detected",
		zap.String("file", filename),
		zap.String("store", storeName),
		zap.String("op", event.Op.String()))

	w.scheduleRebuild(storeName)
}

// isWatchedFile returns true if the filename is one we should watch.
func (w *Watcher) isWatchedFile(filename string) bool {
	return filename == "records.jsonl" || filename == "config.json"
}

// isIgnoredDir returns true for entries of the data directory that cannot
// be stores, such as the cache database and the PID and status files.
func isIgnoredDir(name string) bool {
	return model.ValidateStoreName(name) != nil
}

// extractStoreName extracts the store name from a file path.
// Returns empty string if the path is not a valid store file.
func (w *Watcher) extractStoreName(path string) string {
	// Path should be: baseDir/storeName/filename
	relPath, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		return ""
	}

	parts := strings.Split(relPath, string(filepath.Separator))
	if len(parts) != 2 || parts[0] == ".." {
		return ""
	}

	return parts[0]
}

// scheduleRebuild schedules a debounced rebuild for the given store.
func (w *Watcher) scheduleRebuild(storeName string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	if timer, exists := w.pendingRebuilds[storeName]; exists {
		timer.Stop()
	}

	w.pendingRebuilds[storeName] = time.AfterFunc(w.debounceInterval, func() {
		w.doRebuild(storeName)
	})
}

// doRebuild performs the actual rebuild.
func (w *Watcher) doRebuild(storeName string) {
	w.mu.Lock()
	delete(w.pendingRebuilds, storeName)
	w.mu.Unlock()

	log := w.log.With(zap.String("store", storeName))
	log.Debug("rebuilding cache")

	if err := w.rebuildFn(storeName); err != nil {
		log.Error("cache rebuild failed", zap.Error(err))
		return
	}
	log.Info("cache rebuilt")
}

// StoreCount returns the number of store directories being watched.
func (w *Watcher) StoreCount() int {
	entries, err := os.ReadDir(w.baseDir)
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() && !isIgnoredDir(entry.Name()) {
			count++
		}
	}
	return count
}
