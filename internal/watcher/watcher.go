// Package watcher runs a callback when any of a set of files changes.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before the
// callback runs.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches files for changes. Bursts of events across all files
// coalesce into one callback.
type Watcher struct {
	paths    []string
	onChange func(changed []string)
	debounce time.Duration
	logger   *log.Logger
}

// New creates a watcher for paths. onChange receives the files that changed
// since the previous call and runs on the Watch goroutine.
func New(paths []string, onChange func(changed []string)) *Watcher {
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   log.Default(),
	}
}

// WithDebounce sets the debounce duration.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// WithLogger sets the logger for watch events.
func (w *Watcher) WithLogger(l *log.Logger) *Watcher {
	w.logger = l
	return w
}

// Watch blocks until ctx is cancelled, calling onChange after changes.
//
// Parent directories are watched rather than the files themselves so a file
// replaced by rename (as many editors and spreadsheet exports do) keeps
// being tracked.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	files := make(map[string]bool, len(w.paths))
	dirs := make(map[string]bool)
	for _, p := range w.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return err
		}
		dirs[dir] = true
		w.logger.Debug("watching", "dir", dir)
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]bool)

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !files[abs] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("file event", "path", abs, "op", event.Op.String())
			pending[abs] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for _, p := range w.paths {
				if abs, _ := filepath.Abs(p); pending[abs] {
					changed = append(changed, p)
				}
			}
			clear(pending)
			if len(changed) > 0 {
				w.onChange(changed)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)

		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
