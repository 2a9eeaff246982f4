// Package heap implements a boundary-tag, segregated-free-list memory
// allocator over a single contiguous region supplied by a HeapProvider.
//
// The allocator keeps its own metadata inline in the managed bytes: every
// block carries a 4-byte header and a 4-byte footer encoding its size and
// allocation bit, free blocks thread themselves into one of 20 size-class
// chains through an in-payload link field, and a prologue/epilogue sentinel
// pair brackets the live heap so the coalescer never needs special-case
// branches at the ends.
//
// sbrkheap is not safe for concurrent use: callers serialize their own
// access, exactly as a single-threaded C allocator would expect of its
// caller.
package heap
