package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/user/recstore/internal/model"
)

const (
	// StatusInterval is the interval between status file refreshes.
	StatusInterval = 5 * time.Second
)

// ErrAlreadyRunning is returned when another watcher owns the data directory.
var ErrAlreadyRunning = errors.New("watcher already running")

// Rebuilder rebuilds a store's cache from its files.
type Rebuilder interface {
	RebuildCache(storeName string) error
}

// Process runs the cache watcher in the foreground.
type Process struct {
	files     *Files
	rebuilder Rebuilder
	log       *zap.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	debounce  time.Duration

	mu      sync.Mutex
	status  Status
	watcher *Watcher
}

// NewProcess creates a watcher process for the given data directory.
func NewProcess(baseDir string, rebuilder Rebuilder, log *zap.Logger) *Process {
	if log == nil {
		log = zap.NewNop()
	}
	return &Process{
		files:     NewFiles(baseDir),
		rebuilder: rebuilder,
		log:       log,
		stopChan:  make(chan struct{}),
		debounce:  DefaultDebounceInterval,
	}
}

// Files returns the process's PID and status file locations.
func (p *Process) Files() *Files {
	return p.files
}

// Run watches the data directory until ctx is cancelled, Stop is called or
// SIGINT/SIGTERM arrives. It returns ErrAlreadyRunning when another live
// watcher holds the PID file.
func (p *Process) Run(ctx context.Context) error {
	if running, pid := p.files.IsRunning(); running {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}

	if err := WritePID(p.files.PIDFile(), os.Getpid()); err != nil {
		return fmt.Errorf("writing pid file: %w", err)
	}
	defer func() {
		_ = RemovePID(p.files.PIDFile())
		p.files.removeStatus()
	}()

	p.log.Info("watcher starting", zap.String("dir", p.files.BaseDir()))

	watcher, err := NewWatcher(p.files.BaseDir(), p.rebuild, p.log)
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	watcher.SetDebounceInterval(p.debounce)
	if err := watcher.Start(); err != nil {
		watcher.Close()
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer watcher.Close()

	p.mu.Lock()
	p.watcher = watcher
	p.status = Status{Running: true, PID: os.Getpid(), StartTime: time.Now().UTC()}
	p.mu.Unlock()
	p.updateStatus()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(StatusInterval)
	defer ticker.Stop()

	p.log.Info("watcher started", zap.Int("stores", watcher.StoreCount()))

	for {
		select {
		case <-ctx.Done():
			p.log.Info("context cancelled, shutting down")
			return nil

		case sig := <-sigChan:
			p.log.Info("received signal, shutting down", zap.String("signal", sig.String()))
			return nil

		case <-p.stopChan:
			p.log.Info("stop requested, shutting down")
			return nil

		case <-ticker.C:
			p.updateStatus()
		}
	}
}

// Stop signals the process to stop.
func (p *Process) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
}

// rebuild is the watcher callback. A store that disappeared from disk is
// reported by the rebuilder as not found, which is expected after a drop.
func (p *Process) rebuild(storeName string) error {
	err := p.rebuilder.RebuildCache(storeName)
	if errors.Is(err, model.ErrStoreNotFound) {
		p.log.Info("store removed, cache entries dropped", zap.String("store", storeName))
		err = nil
	}
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.status.LastSync = time.Now().UTC()
	p.status.Rebuilds++
	p.mu.Unlock()
	p.updateStatus()
	return nil
}

// updateStatus writes the status file.
func (p *Process) updateStatus() {
	p.mu.Lock()
	if p.watcher != nil {
		p.status.StoresWatched = p.watcher.StoreCount()
	}
	status := p.status
	p.mu.Unlock()

	if err := p.files.writeStatus(&status); err != nil {
		p.log.Warn("could not update status file", zap.Error(err))
	}
}
