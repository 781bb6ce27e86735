package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
)

// Watch reloads the global configuration whenever the config file is
// written or replaced, until ctx is done. The directory is watched rather
// than the file so that editors which rename over the file are handled.
func Watch(ctx context.Context, lggr logger.Logger, onReload func(*Config)) error {
	path := FilePath()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := Reload(); err != nil {
					lggr.Errorw("Config reload failed, keeping previous configuration", "path", path, "err", err)
					continue
				}
				lggr.Infow("Config reloaded", "path", path)
				if onReload != nil {
					onReload(Get())
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				lggr.Warnw("Config watcher error", "err", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}
