package tracer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsNewTraceFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	seen := make(chan string, 1)
	go func() {
		_ = w.Run(ctx, func(path string) {
			select {
			case seen <- path:
			default:
			}
		})
	}()

	target := filepath.Join(dir, "run1.trace")
	time.Sleep(50 * time.Millisecond) // let Run reach its select before we write
	if err := os.WriteFile(target, []byte("a 1 16\nf 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case path := <-seen:
		if filepath.Base(path) != "run1.trace" {
			t.Errorf("reported path = %q, want basename run1.trace", path)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for watcher to report %s", target)
	}
}
