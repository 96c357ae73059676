package config

import (
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchReloads watches the config file for external edits and sends the
// freshly reloaded Config on the returned channel after a short debounce.
// Reload errors are logged and otherwise swallowed: a transient partial
// write should not tear down the watch.
func WatchReloads(path string) (<-chan *Config, func(), error) {
	if path == "" {
		path = ConfigPath()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	if err := watcher.Add(ConfigPathDir(path)); err != nil {
		watcher.Close()
		return nil, nil, err
	}

	reloads := make(chan *Config, 1)
	debounceDelay := 150 * time.Millisecond

	go func() {
		defer watcher.Close()
		defer close(reloads)

		var debounceTimer *time.Timer
		emit := func() {
			cfg, err := LoadFrom(path)
			if err != nil {
				slog.Warn("config reload failed", "path", path, "error", err)
				return
			}
			select {
			case reloads <- cfg:
			default:
			}
		}

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != path {
					continue
				}
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDelay, emit)
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return reloads, func() { watcher.Close() }, nil
}
