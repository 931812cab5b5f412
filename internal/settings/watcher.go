package settings

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/hubworks/sitepilot/internal/events"
)

// Watcher reloads the store when its file changes on disk and
// announces the reload on the event bus.
type Watcher struct {
	store   *Store
	bus     *events.Bus
	logger  *log.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher starts watching the store's directory. Editors replace
// files by rename, so the directory is watched rather than the file.
func NewWatcher(store *Store, bus *events.Bus, logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(store.Path())); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch settings dir: %w", err)
	}

	w := &Watcher{store: store, bus: bus, logger: logger, watcher: fw, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	target := filepath.Clean(w.store.Path())
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := w.store.Reload(); err != nil {
				w.logger.Printf("[WARN] settings reload failed: %v", err)
				continue
			}
			w.logger.Printf("[INFO] settings reloaded from %s", target)
			w.bus.Publish(events.EventSettingsReloaded, map[string]any{"path": target})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("[WARN] settings watcher error: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
