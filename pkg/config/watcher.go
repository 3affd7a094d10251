package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-reads config.toml whenever it changes on disk and hands the
// reloaded Config to a callback. The server uses it to flip runtime
// toggles, e.g. embedding.disable_external, without a restart.
type Watcher struct {
	cfger    *Configer
	onReload func(*Config)
	logger   *slog.Logger
}

// NewWatcher creates a Watcher over the given Configer's config file.
func NewWatcher(cfger *Configer, onReload func(*Config), logger *slog.Logger) (*Watcher, error) {
	if cfger == nil {
		return nil, fmt.Errorf("configer is required")
	}
	if cfger.GetTarget() == "" {
		return nil, fmt.Errorf("no config file to watch")
	}
	if onReload == nil {
		return nil, fmt.Errorf("reload callback is required")
	}

	return &Watcher{
		cfger:    cfger,
		onReload: onReload,
		logger:   logger,
	}, nil
}

// Watch blocks until ctx is cancelled, invoking the reload callback on
// every write to the config file. Editors replace files on save, so the
// watch is on the parent directory with events filtered by name.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer watcher.Close()

	path := w.cfger.GetTarget()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching config dir: %w", err)
	}

	w.logger.Info("watching config file", "path", path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cfg, err := w.cfger.LoadConfig()
			if err != nil {
				w.logger.Warn("config reload failed", "error", err)
				continue
			}

			w.logger.Info("config reloaded", "path", path)
			w.onReload(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}
