package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labellens/backend/internal/logger"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads a Store whenever its file changes on disk. The parent
// directory is watched so editors that replace the file are handled too.
type Watcher struct {
	store    *Store
	target   string
	debounce time.Duration
	logger   logger.Logger
}

// NewWatcher creates a watcher for the store's path
func NewWatcher(store *Store, log logger.Logger) *Watcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Watcher{
		store:    store,
		target:   filepath.Clean(store.Path()),
		debounce: defaultDebounce,
		logger:   log,
	}
}

// Run blocks until ctx is done, reloading after each burst of relevant events
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.target)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("Watching dataset for changes", logger.String("path", w.target))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.shouldReload(event) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Dataset watcher error", logger.Error(err))
		case <-timer.C:
			// Reload logs its own failures and keeps the old dataset
			_, _ = w.store.Reload(ctx)
		}
	}
}

// shouldReload reports whether event touches the dataset file with a content change
func (w *Watcher) shouldReload(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
