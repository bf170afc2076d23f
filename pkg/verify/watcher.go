package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ternarybob/docguard/internal/logger"
)

// Watcher re-runs verification whenever a Markdown file under the root
// changes. Changes are debounced so a burst of editor writes produces one
// run.
type Watcher struct {
	runner   *Runner
	suites   []Suite
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReport func(Report)

	running bool
	stopCh  chan struct{}
	mu      sync.RWMutex

	pending   map[string]time.Time
	pendingMu sync.Mutex
}

// NewWatcher creates a Watcher over the runner's root.
func NewWatcher(runner *Runner, suites []Suite, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		runner:   runner,
		suites:   suites,
		watcher:  fsWatcher,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		pending:  make(map[string]time.Time),
	}, nil
}

// OnReport registers a callback invoked after each verification run.
func (w *Watcher) OnReport(fn func(Report)) {
	w.onReport = fn
}

// Start begins watching for Markdown changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addDirectories(); err != nil {
		return fmt.Errorf("add directories: %w", err)
	}

	go w.processEvents()
	go w.processDebounced()

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.stopCh)

	return w.watcher.Close()
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// addDirectories recursively adds directories under the root to the watch
// set.
func (w *Watcher) addDirectories() error {
	return filepath.Walk(w.runner.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(w.runner.Root, path)
		if shouldSkipDir(rel) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			logger.GetLogger().Warn().Err(err).Str("dir", path).Msg("cannot watch directory")
		}
		return nil
	})
}

func shouldSkipDir(relPath string) bool {
	skipDirs := []string{".git", "node_modules", "vendor"}
	for _, dir := range skipDirs {
		if relPath == dir || strings.HasPrefix(relPath, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// processEvents collects Markdown write/create events into the pending set.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.pendingMu.Lock()
			w.pending[event.Name] = time.Now()
			w.pendingMu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.GetLogger().Warn().Err(err).Msg("watcher error")
		}
	}
}

// processDebounced triggers a verification run once pending changes have
// been stable for the debounce interval.
func (w *Watcher) processDebounced() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if w.takeStable() {
				w.run()
			}
		}
	}
}

// takeStable reports whether any pending change is old enough to act on and
// clears the pending set if so.
func (w *Watcher) takeStable() bool {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if len(w.pending) == 0 {
		return false
	}
	now := time.Now()
	for _, ts := range w.pending {
		if now.Sub(ts) < w.debounce {
			return false
		}
	}
	w.pending = make(map[string]time.Time)
	return true
}

func (w *Watcher) run() {
	report := w.runner.RunAll(w.suites)
	w.runner.WriteSummary(report)
	logger.GetLogger().Info().
		Int("passed", report.Passed).
		Int("failed", report.Failed).
		Msg("verification run complete")
	if w.onReport != nil {
		w.onReport(report)
	}
}
