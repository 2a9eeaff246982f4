package tracer

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a directory for trace files (named *.trace) being
// created or rewritten and reports their paths, grounded on the runtime's
// fsnotify-backed filesystem watcher.
type Watcher struct {
	fsw *fsnotify.Watcher
	dir string
}

// NewWatcher starts watching dir. Callers must call Close when done.
func NewWatcher(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("tracer: creating watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("tracer: watching %s: %w", dir, err)
	}
	return &Watcher{fsw: fsw, dir: dir}, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error { return w.fsw.Close() }

// Run blocks, calling handle with the path of every trace file created or
// written in the watched directory, until ctx is cancelled or the
// underlying watcher reports an error.
func (w *Watcher) Run(ctx context.Context, handle func(path string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".trace") {
				continue
			}
			handle(ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("tracer: watcher error: %w", err)
		}
	}
}
