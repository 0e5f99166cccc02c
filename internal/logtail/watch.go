package logtail

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/five82/foamwatch/internal/logging"
)

// Watcher signals when the watched log file changes on disk. It watches the
// parent directory so a log that does not exist yet is picked up on create.
type Watcher struct {
	watcher *fsnotify.Watcher
	target  string
	wake    chan struct{}
}

// NewWatcher starts watching path. The returned Watcher must be closed.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		watcher: fsw,
		target:  filepath.Clean(abs),
		wake:    make(chan struct{}, 1),
	}
	go w.processEvents()
	return w, nil
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Coalesce bursts of writes into one pending wake.
			select {
			case w.wake <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn().Err(err).Str("path", w.target).Msg("log watcher error")
		}
	}
}

// Wake returns a channel that receives after the log file was written.
func (w *Watcher) Wake() <-chan struct{} {
	return w.wake
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
