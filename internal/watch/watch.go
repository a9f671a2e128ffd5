// Package watch rebuilds sprites when their source files change on disk.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/spritemesh/internal/logger"
)

// Handler is called once per settled change of a matching file.
type Handler func(path string)

// Watcher reports created or rewritten files in one directory whose base
// name matches a glob pattern. Bursts of events for the same file within the
// debounce window collapse into one call.
type Watcher struct {
	fs       *fsnotify.Watcher
	pattern  string
	debounce time.Duration
	handle   Handler

	mu      sync.Mutex
	pending map[string]*time.Timer
	fire    chan string
}

// New starts watching dir. Call Run to deliver events and Close when done.
func New(dir, pattern string, debounce time.Duration, h Handler) (*Watcher, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		fs:       fsw,
		pattern:  pattern,
		debounce: debounce,
		handle:   h,
		pending:  make(map[string]*time.Timer),
		fire:     make(chan string),
	}, nil
}

// Run delivers changes to the handler until ctx is done or the watcher is
// closed. Handler calls happen on the Run goroutine, one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !e.Has(fsnotify.Create) && !e.Has(fsnotify.Write) {
				continue
			}
			if ok, _ := filepath.Match(w.pattern, filepath.Base(e.Name)); ok {
				w.schedule(ctx, e.Name)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case path := <-w.fire:
			logger.Debug("source changed", zap.String("path", path))
			w.handle(path)

		case <-ctx.Done():
			w.stopTimers()
			return ctx.Err()
		}
	}
}

// schedule (re)arms the debounce timer of path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		select {
		case w.fire <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.stopTimers()
	return w.fs.Close()
}
