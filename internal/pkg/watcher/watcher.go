// Package watcher keeps a filter manager in sync with its files on disk.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/endorses/seqfilter/internal/pkg/constants"
	"github.com/endorses/seqfilter/internal/pkg/filtering"
	"github.com/endorses/seqfilter/internal/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

// RuntimeFilter is a filter re-applied to every snapshot's runtime set.
type RuntimeFilter struct {
	Type    string
	Pattern string
}

// Config configures a Watcher.
type Config struct {
	Manager filtering.ManagerConfig

	// Zone is loaded alongside the global file when not empty.
	Zone string

	// Runtime filters survive reloads.
	Runtime []RuntimeFilter

	// PollInterval is the fallback polling interval when fsnotify is unavailable.
	// Default: constants.WatchPollInterval
	PollInterval time.Duration

	// Debounce coalesces bursts of events into one reload.
	// Default: constants.WatchDebounce
	Debounce time.Duration

	// ForcePolling skips fsnotify.
	ForcePolling bool
}

// Watcher reloads the filter files when they change and swaps in the new
// filters atomically. FilterMask may be called from any goroutine.
type Watcher struct {
	config    Config
	log       logger.Sink
	current   atomic.Pointer[filtering.Manager]
	reloads   atomic.Uint64
	failures  atomic.Uint64
	fsWatcher *fsnotify.Watcher
	mu        sync.Mutex
	stopChan  chan struct{}
	wg        sync.WaitGroup
	running   bool
}

// New creates a watcher and loads the initial snapshot.
func New(config Config) (*Watcher, error) {
	if config.PollInterval <= 0 {
		config.PollInterval = constants.WatchPollInterval
	}
	if config.Debounce <= 0 {
		config.Debounce = constants.WatchDebounce
	}
	if config.Manager.Logger == nil {
		config.Manager.Logger = logger.Get()
	}

	w := &Watcher{
		config:   config,
		log:      config.Manager.Logger,
		stopChan: make(chan struct{}),
	}

	m, err := w.load()
	if err != nil {
		return nil, err
	}
	w.current.Store(m)
	return w, nil
}

// load builds a complete snapshot off to the side.
func (w *Watcher) load() (*filtering.Manager, error) {
	m, err := filtering.NewManager(w.config.Manager)
	if err != nil {
		return nil, err
	}
	if err := m.Load(w.config.Zone); err != nil {
		return nil, err
	}
	for _, f := range w.config.Runtime {
		if _, err := m.AddFilter(filtering.ScopeRuntime, f.Type, f.Pattern); err != nil {
			return nil, fmt.Errorf("failed to add runtime filter: %w", err)
		}
	}
	return m, nil
}

// Reload loads the files again and swaps the result in. On error the
// previous filters stay active.
func (w *Watcher) Reload() error {
	m, err := w.load()
	if err != nil {
		w.failures.Add(1)
		w.log.Warn("filter reload failed, keeping previous filters",
			"error", err)
		return err
	}
	w.current.Store(m)
	n := w.reloads.Add(1)
	w.log.Info("reloaded filters",
		"zone", w.config.Zone,
		"reloads", n)
	return nil
}

// Manager returns the active snapshot. Callers must not modify it.
func (w *Watcher) Manager() *filtering.Manager {
	return w.current.Load()
}

// FilterMask matches candidate against the active snapshot.
func (w *Watcher) FilterMask(candidate string, level uint8) uint32 {
	return w.current.Load().FilterMask(candidate, level)
}

// FilterNames names the types in mask.
func (w *Watcher) FilterNames(mask uint32) string {
	return w.current.Load().FilterNames(mask)
}

// Reloads returns the number of successful reloads since New.
func (w *Watcher) Reloads() uint64 {
	return w.reloads.Load()
}

// Failures returns the number of reloads that kept the previous filters.
func (w *Watcher) Failures() uint64 {
	return w.failures.Load()
}

// Paths returns the files being watched.
func (w *Watcher) Paths() []string {
	m := w.current.Load()
	paths := []string{m.GlobalPath()}
	if w.config.Zone != "" {
		paths = append(paths, m.ZonePath(w.config.Zone))
	}
	return paths
}

// Start begins watching. It returns once the watch loop is running.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	if w.config.ForcePolling {
		return w.startPolling(ctx)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.log.Warn("fsnotify unavailable, falling back to polling",
			"error", err)
		return w.startPolling(ctx)
	}

	// Files are replaced by rename on save, so watch the directory.
	dir := w.config.Manager.Dir
	if dir == "" {
		dir = "."
	}
	if err := fsWatcher.Add(dir); err != nil {
		w.log.Warn("failed to watch filter directory, falling back to polling",
			"dir", dir,
			"error", err)
		if cerr := fsWatcher.Close(); cerr != nil {
			w.log.Error("failed to close fsnotify watcher", "error", cerr)
		}
		return w.startPolling(ctx)
	}
	w.fsWatcher = fsWatcher

	w.wg.Add(1)
	go w.fsWatchLoop(ctx)

	w.log.Info("started filter watcher",
		"dir", dir,
		"mode", "fsnotify")
	return nil
}

func (w *Watcher) startPolling(ctx context.Context) error {
	w.wg.Add(1)
	go w.pollLoop(ctx)

	w.log.Info("started filter watcher",
		"mode", "polling",
		"interval", w.config.PollInterval)
	return nil
}

func (w *Watcher) isTarget(name string) bool {
	target, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	for _, p := range w.Paths() {
		if abs, err := filepath.Abs(p); err == nil && abs == target {
			return true
		}
	}
	return false
}

func (w *Watcher) fsWatchLoop(ctx context.Context) {
	defer w.wg.Done()

	timer := time.NewTimer(w.config.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isTarget(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("filter file changed",
				"path", event.Name,
				"op", event.Op.String())
			timer.Reset(w.config.Debounce)
		case <-timer.C:
			_ = w.Reload()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("fsnotify error", "error", err)
		}
	}
}

type fileState struct {
	modTime time.Time
	size    int64
	exists  bool
}

func statFile(path string) (fileState, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileState{}, nil
		}
		return fileState{}, err
	}
	return fileState{modTime: info.ModTime(), size: info.Size(), exists: true}, nil
}

func (w *Watcher) pollLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	last := make(map[string]fileState)
	for _, p := range w.Paths() {
		if st, err := statFile(p); err == nil {
			last[p] = st
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			changed := false
			for _, p := range w.Paths() {
				st, err := statFile(p)
				if err != nil {
					w.log.Warn("failed to stat filter file",
						"path", p,
						"error", err)
					continue
				}
				if st != last[p] {
					last[p] = st
					changed = true
				}
			}
			if changed {
				_ = w.Reload()
			}
		}
	}
}

// Stop stops the watcher and waits for its loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)

	var err error
	if w.fsWatcher != nil {
		if err = w.fsWatcher.Close(); err != nil {
			w.log.Error("failed to close fsnotify watcher", "error", err)
		}
	}

	w.wg.Wait()

	w.log.Info("stopped filter watcher",
		"reloads", w.reloads.Load())
	return err
}
