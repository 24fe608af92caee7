package server

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/devopslaunch/siteforge/internal/logfields"
)

const watchDebounce = 400 * time.Millisecond

// Watcher triggers a callback when content under the root changes. Bursts of
// events (editor save, git checkout) are debounced into one trigger.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	onChange func()
}

// NewWatcher watches the content root and all its subdirectories.
func NewWatcher(root string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{fsw: fsw, root: root, onChange: onChange}
	if err := w.addRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(p)
		}
		return nil
	})
}

// Run pumps watch events until the context is canceled.
func (w *Watcher) Run(ctx context.Context) {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			slog.Warn("Failed to close watcher", logfields.Error(err))
		}
	}()

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// Newly created directories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if err := w.addRecursive(event.Name); err != nil {
					slog.Debug("Watch add failed", logfields.Path(event.Name), logfields.Error(err))
				}
			}
			if timer == nil {
				timer = time.AfterFunc(watchDebounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", logfields.Error(err))
		case <-fire:
			timer = nil
			slog.Debug("Content change detected", logfields.Path(w.root))
			w.onChange()
		}
	}
}
