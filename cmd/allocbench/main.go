// Command allocbench drives a synthetic random alloc/free/realloc workload
// against the heap allocator and reports throughput and occupancy
// statistics, optionally checking every N operations for consistency.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/orizon-lang/sbrkheap/internal/heap"
)

func main() {
	var (
		heapSize    = flag.Int("heap-size", 64<<20, "fixed heap capacity in bytes")
		chunkSize   = flag.Uint("chunk-size", 1<<16, "heap extension granularity in bytes")
		searchBound = flag.Int("search-bound", 0, "bounded best-fit search cutoff (0 keeps the default)")
		ops         = flag.Int("ops", 200000, "number of alloc/free/realloc operations to run")
		maxAlloc    = flag.Int("max-alloc", 4096, "maximum payload size requested per allocation")
		reallocFrac = flag.Float64("realloc-frac", 0.1, "fraction of operations that realloc a live block instead of alloc/free")
		seed        = flag.Int64("seed", 1, "random seed")
		checkEvery  = flag.Int("check-every", 0, "run CheckHeap every N operations (0 disables)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Benchmarks the boundary-tag allocator against a synthetic workload.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	opts := []heap.Option{heap.WithChunkSize(uint32(*chunkSize))}
	if *searchBound > 0 {
		opts = append(opts, heap.WithSearchBound(*searchBound))
	}

	provider, err := heap.NewFixedProvider(*heapSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "allocbench: %v\n", err)
		os.Exit(1)
	}
	h := heap.New(provider, opts...)
	if err := h.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "allocbench: Init: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	var live []heap.Ptr

	start := time.Now()
	for i := 0; i < *ops; i++ {
		switch {
		case len(live) > 0 && rng.Float64() < *reallocFrac:
			idx := rng.Intn(len(live))
			n := uintptr(rng.Intn(*maxAlloc) + 1)
			p, err := h.Realloc(live[idx], n)
			if err != nil {
				fmt.Fprintf(os.Stderr, "allocbench: op %d: realloc: %v\n", i, err)
				os.Exit(1)
			}
			live[idx] = p
		case len(live) == 0 || rng.Intn(2) == 0:
			n := uintptr(rng.Intn(*maxAlloc) + 1)
			p, err := h.Alloc(n)
			if err != nil {
				fmt.Fprintf(os.Stderr, "allocbench: op %d: alloc: %v\n", i, err)
				os.Exit(1)
			}
			live = append(live, p)
		default:
			idx := rng.Intn(len(live))
			h.Free(live[idx])
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
		}

		if *checkEvery > 0 && i%*checkEvery == 0 {
			if err := h.CheckHeap(false); err != nil {
				fmt.Fprintf(os.Stderr, "allocbench: op %d: %v\n", i, err)
				os.Exit(1)
			}
		}
	}
	elapsed := time.Since(start)

	stats := h.Stats()
	fmt.Printf("ops:              %d\n", *ops)
	fmt.Printf("elapsed:          %s\n", elapsed)
	fmt.Printf("ops/sec:          %.0f\n", float64(*ops)/elapsed.Seconds())
	fmt.Printf("alloc count:      %d\n", stats.AllocCount)
	fmt.Printf("free count:       %d\n", stats.FreeCount)
	fmt.Printf("bytes allocated:  %d\n", stats.BytesAllocated)
	fmt.Printf("bytes freed:      %d\n", stats.BytesFreed)
	fmt.Printf("peak bytes in use:%d\n", stats.PeakBytesInUse)
	fmt.Printf("heap extensions:  %d\n", stats.HeapExtensions)
	fmt.Printf("heap bytes:       %d\n", stats.HeapBytes)
}
