package tracer

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/sbrkheap/internal/heap"
)

// Replay drives a trace's events against h in order, resolving each
// Event.ID to the heap.Ptr its most recent alloc/calloc/realloc produced.
// When checkEvery > 0, CheckHeap is run every checkEvery events (and after
// the last one) so corruption is caught close to the event that caused it.
func Replay(h *heap.Heap, events []Event, checkEvery int) error {
	live := make(map[int]heap.Ptr)

	for i, e := range events {
		switch e.Op {
		case OpAlloc:
			p, err := h.Alloc(e.Size)
			if err != nil {
				return fmt.Errorf("tracer: event %d (alloc id=%d size=%d): %w", i, e.ID, e.Size, err)
			}
			live[e.ID] = p
		case OpFree:
			p, ok := live[e.ID]
			if !ok {
				return fmt.Errorf("tracer: event %d: free of unknown id %d", i, e.ID)
			}
			h.Free(p)
			delete(live, e.ID)
		case OpRealloc:
			p := live[e.ID]
			np, err := h.Realloc(p, e.Size)
			if err != nil {
				return fmt.Errorf("tracer: event %d (realloc id=%d size=%d): %w", i, e.ID, e.Size, err)
			}
			if np.IsNull() {
				delete(live, e.ID)
			} else {
				live[e.ID] = np
			}
		case OpCalloc:
			p, err := h.Calloc(e.Nmemb, e.Size)
			if err != nil {
				return fmt.Errorf("tracer: event %d (calloc id=%d nmemb=%d size=%d): %w", i, e.ID, e.Nmemb, e.Size, err)
			}
			live[e.ID] = p
		default:
			return fmt.Errorf("tracer: event %d: unhandled op %q", i, e.Op)
		}

		if checkEvery > 0 && (i%checkEvery == 0 || i == len(events)-1) {
			if err := h.CheckHeap(false); err != nil {
				return fmt.Errorf("tracer: event %d: %w", i, err)
			}
		}
	}
	return nil
}

// ReplayFile reads a trace file at path and replays it against a fresh
// Heap built by newHeap.
func ReplayFile(path string, newHeap func() *heap.Heap, checkEvery int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("tracer: opening %s: %w", path, err)
	}
	defer f.Close()

	events, err := ReadTrace(f)
	if err != nil {
		return fmt.Errorf("tracer: %s: %w", path, err)
	}

	h := newHeap()
	if err := h.Init(); err != nil {
		return fmt.Errorf("tracer: %s: Init: %w", path, err)
	}
	if err := Replay(h, events, checkEvery); err != nil {
		return fmt.Errorf("tracer: %s: %w", path, err)
	}
	return nil
}

// ReplayAll replays every trace file in paths concurrently, each against
// its own Heap (a Heap is never shared across goroutines), and returns the
// first error encountered. A replay that has not started when another one
// fails is skipped; replays already running are not interrupted.
func ReplayAll(ctx context.Context, paths []string, newHeap func() *heap.Heap, checkEvery int) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return ReplayFile(path, newHeap, checkEvery)
		})
	}
	return g.Wait()
}
