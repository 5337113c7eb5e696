package allowlist

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads an allowlist policy when its source file changes.
// Rapid successive writes (editor save patterns) are debounced so a single
// logical change triggers a single reload.
type Watcher struct {
	path     string
	policy   *Policy
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// WatcherConfig configures the allowlist file watcher.
type WatcherConfig struct {
	// Path is the allowlist YAML file to watch.
	Path string

	// DebounceInterval is the quiet period before a reload fires
	// (default: 100ms).
	DebounceInterval time.Duration
}

// NewWatcher creates a watcher that keeps policy in sync with the file at
// cfg.Path.
func NewWatcher(cfg WatcherConfig, policy *Policy, logger *slog.Logger) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watcher path cannot be empty")
	}
	if cfg.DebounceInterval == 0 {
		cfg.DebounceInterval = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     cfg.Path,
		policy:   policy,
		watcher:  fsw,
		debounce: cfg.DebounceInterval,
		logger:   logger.With("component", "allowlist.watcher"),
	}, nil
}

// Watch blocks until ctx is cancelled, reloading the allowlist on changes.
// A reload that fails to parse keeps the previous policy in place.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		w.watcher.Close()
	}()

	// Watch the directory, not the file: editors replace files on save,
	// which drops a direct file watch.
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("allowlist watcher started",
		"path", w.path,
		"debounce_ms", w.debounce.Milliseconds(),
	)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("allowlist watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("allowlist watcher error", "error", err)
		}
	}
}

// reload re-reads the file and swaps the policy contents on success.
func (w *Watcher) reload() {
	next, err := FromFile(w.path)
	if err != nil {
		w.logger.Error("allowlist reload failed, keeping previous policy",
			"path", w.path,
			"error", err,
		)
		return
	}

	w.policy.Replace(next)
	w.logger.Info("allowlist reloaded", "path", w.path)
}
