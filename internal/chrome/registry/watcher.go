package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"finitefield.org/hanko-chrome/internal/chrome/observability"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads the registry whenever navigation files change on disk.
// A failed reload is logged and the previous content keeps being served.
type Watcher struct {
	loader   *Loader
	registry *Registry
	logger   *zap.Logger
	metrics  *observability.Metrics
	debounce time.Duration
}

// WatcherOption customises a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for a burst of events to settle.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = observability.OrNop(logger)
	}
}

// WithMetrics records reloads on m.
func WithMetrics(m *observability.Metrics) WatcherOption {
	return func(w *Watcher) {
		w.metrics = m
	}
}

// NewWatcher builds a watcher that feeds registry from loader.
func NewWatcher(loader *Loader, registry *Registry, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		loader:   loader,
		registry: registry,
		logger:   zap.NewNop(),
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. It returns an error only when the
// watch cannot be set up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dirs := []string{filepath.Clean(w.loader.Dir)}
	if routesDir := filepath.Clean(filepath.Dir(w.loader.RoutesPath())); routesDir != dirs[0] {
		dirs = append(dirs, routesDir)
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.logger.Info("watching navigation files", zap.Strings("dirs", dirs))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("navigation file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("navigation watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			w.Reload()
		}
	}
}

// Reload loads from disk once and swaps the registry content on success.
func (w *Watcher) Reload() {
	revision, err := w.loader.LoadInto(w.registry)
	w.metrics.ObserveReload(revision, err)
	if err != nil {
		w.logger.Error("navigation reload failed; keeping previous revision",
			zap.Uint64("revision", w.registry.Revision()),
			zap.Error(err),
		)
		return
	}
	w.logger.Info("navigation reloaded", zap.Uint64("revision", revision))
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return IsNavigationFile(event.Name)
}
