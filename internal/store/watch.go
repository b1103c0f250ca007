package store

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the burst of events a single save produces
const watchDebounce = 100 * time.Millisecond

// Watcher signals when the slot document is written or replaced. A pending
// signal stands for any number of changes; receivers re-read the document.
// Writes made by this process are reported too.
type Watcher struct {
	watcher *fsnotify.Watcher
	target  string
	changes chan struct{}
	done    chan struct{}
	logger  *slog.Logger
}

// Watch starts watching the document. The directory is watched rather than
// the file, because Save replaces the file with a rename.
func (f *File) Watch() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(f.path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	w := &Watcher{
		watcher: fw,
		target:  filepath.Base(f.path),
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
		logger:  f.logger,
	}
	go w.loop()

	return w, nil
}

// Changes delivers one value per settled burst of changes. It is closed
// when the watcher stops.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher and waits for its goroutine to exit
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.changes)

	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce.Reset(watchDebounce)

		case <-debounce.C:
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("slot document watch error", "error", err)
		}
	}
}
