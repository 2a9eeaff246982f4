// Command alloctrace replays recorded allocation traces against the heap
// allocator, verifying consistency as it goes, and can optionally watch a
// directory for traces written by an external driver.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/orizon-lang/sbrkheap/internal/heap"
	"github.com/orizon-lang/sbrkheap/internal/tracer"
)

func main() {
	var (
		heapSize   = flag.Int("heap-size", 64<<20, "fixed heap capacity in bytes")
		chunkSize  = flag.Uint("chunk-size", 1<<16, "heap extension granularity in bytes")
		checkEvery = flag.Int("check-every", 1, "run CheckHeap every N trace events")
		watchDir   = flag.String("watch", "", "directory to watch for *.trace files instead of replaying args")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] trace-file...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Replays allocation traces against the heap allocator.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	newHeap := func() *heap.Heap {
		provider, err := heap.NewFixedProvider(*heapSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "alloctrace: %v\n", err)
			os.Exit(1)
		}
		return heap.New(provider, heap.WithChunkSize(uint32(*chunkSize)))
	}

	if *watchDir != "" {
		runWatch(*watchDir, newHeap, *checkEvery)
		return
	}

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	if err := tracer.ReplayAll(ctx, paths, newHeap, *checkEvery); err != nil {
		fmt.Fprintf(os.Stderr, "alloctrace: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("replayed %d trace file(s) successfully\n", len(paths))
}

func runWatch(dir string, newHeap func() *heap.Heap, checkEvery int) {
	w, err := tracer.NewWatcher(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "alloctrace: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("watching %s for *.trace files (Ctrl-C to stop)\n", dir)
	err = w.Run(ctx, func(path string) {
		if err := tracer.ReplayFile(path, newHeap, checkEvery); err != nil {
			fmt.Fprintf(os.Stderr, "alloctrace: %s: %v\n", filepath.Base(path), err)
			return
		}
		fmt.Printf("replayed %s\n", filepath.Base(path))
	})
	if err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "alloctrace: watcher: %v\n", err)
		os.Exit(1)
	}
}
