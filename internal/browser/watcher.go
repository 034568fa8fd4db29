package browser

import (
	"github.com/fsnotify/fsnotify"

	"leek/internal/logger"
)

// Watcher reports when entries are added to or removed from the directory
// being browsed. Bursts of events collapse into a single notification.
type Watcher struct {
	watcher *fsnotify.Watcher
	dir     string
	changes chan struct{}
}

func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher: fw,
		changes: make(chan struct{}, 1),
	}
	go w.run()
	return w, nil
}

// Watch switches the watcher to dir. Watching the same directory again is a
// no-op.
func (w *Watcher) Watch(dir string) error {
	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		_ = w.watcher.Remove(w.dir)
	}
	w.dir = ""
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dir = dir
	return nil
}

// Changes yields a value after the watched directory's listing changed. It is
// closed when the watcher is closed.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) run() {
	defer close(w.changes)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Directory watch error", logger.ErrorField(err))
		}
	}
}
