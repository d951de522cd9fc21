package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc is called with the freshly loaded configuration whenever the
// watched file changes and parses cleanly.
type ReloadFunc func(cfg *Config)

// Watcher reloads a configuration file on change. A change that fails to
// parse or validate is dropped; the previously loaded configuration stays
// in effect.
type Watcher struct {
	loader  *Loader
	path    string
	reload  ReloadFunc
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the given configuration file.
func NewWatcher(loader *Loader, path string, reload ReloadFunc) (*Watcher, error) {
	if reload == nil {
		return nil, fmt.Errorf("reload func is required")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files on save and
	// the original inode watch would go stale.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &Watcher{
		loader:  loader,
		path:    path,
		reload:  reload,
		watcher: fsw,
	}, nil
}

// Run processes file events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := w.loader.Load(w.path)
			if err != nil {
				continue
			}
			w.reload(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("config watcher error: %w", err)
		}
	}
}

// Close stops the underlying file watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
