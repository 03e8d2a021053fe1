package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads path whenever it is written, created or renamed into place,
// and calls onChange with each successfully loaded Config. A reload that
// fails is logged and skipped; the previous configuration stays in effect.
//
// The parent directory is watched rather than the file, so editors that
// replace the file atomically are handled. Watch returns once the watcher
// is running; it stops when ctx is done.
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer watcher.Close()
		base := filepath.Base(abs)

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				cfg, err := Load(abs)
				if err != nil {
					slog.Warn("config reload failed, keeping previous config",
						slog.String("path", abs),
						slog.Any("error", err))
					continue
				}
				slog.Debug("config reloaded", slog.String("path", abs))
				onChange(cfg)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("config watcher error", slog.Any("error", err))
			}
		}
	}()

	return nil
}
