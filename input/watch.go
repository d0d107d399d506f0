package input

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gogpu/sceneview"
)

// DefaultSettle is how long a file must stay quiet before it is reloaded.
const DefaultSettle = 100 * time.Millisecond

// Watcher reloads a scene file whenever it changes and pushes the new
// scene to a sink.
//
// The directory is watched rather than the file, so editors that save by
// renaming a temporary file over the original are picked up too.
type Watcher struct {
	path   string
	sink   Sink
	settle time.Duration
	fw     *fsnotify.Watcher
}

// NewWatcher starts watching path.
func NewWatcher(path string, sink Sink, settle time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("input: watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("input: watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("input: watch %s: %w", path, err)
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{path: abs, sink: sink, settle: settle, fw: fw}, nil
}

// Run delivers reloads until ctx is done or the watcher is closed.
// Parse errors are logged and the previous scene stays in place.
func (w *Watcher) Run(ctx context.Context) error {
	log := sceneview.Logger()

	timer := time.NewTimer(w.settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("scene file changed", "path", w.path, "op", ev.Op)
			timer.Reset(w.settle)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("scene watcher error", "err", err)

		case <-timer.C:
			if err := Reload(w.path, w.sink); err != nil {
				log.Warn("scene reload failed", "path", w.path, "err", err)
				continue
			}
			log.Info("scene reloaded", "path", w.path)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
