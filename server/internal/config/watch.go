package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads path whenever it is written and calls onChange with the
// reloaded Config and the keys that now differ from running. Edits that
// leave every key equal to running, and reloads that fail validation, do not
// call onChange. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, running *Config, onChange func(next *Config, changed []string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		return fmt.Errorf("config: watch %q: %w", path, err)
	}
	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			reload(path, running, onChange)
			// An atomic save replaces the inode; watch the new file.
			_ = w.Add(path)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

func reload(path string, running *Config, onChange func(*Config, []string)) {
	next, err := Load(path)
	if err != nil {
		slog.Error("config: reload failed", "path", path, "err", err)
		return
	}
	changed, err := Diff(running, next)
	if err != nil {
		slog.Error("config: compare failed", "path", path, "err", err)
		return
	}
	if len(changed) == 0 {
		slog.Debug("config: file rewritten without changes", "path", path)
		return
	}
	onChange(next, changed)
}
