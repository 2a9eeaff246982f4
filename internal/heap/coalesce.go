package heap

// coalesce merges b with a free predecessor and/or successor, inserts the
// resulting block into its size class, and returns the merged block's
// address. The prologue and epilogue sentinels always report alloc=true,
// so this never reaches past either end of the heap.
func (h *Heap) coalesce(b uint32) uint32 {
	prev := h.prevBlock(b)
	next := h.nextBlock(b)
	prevFree := !h.allocAt(prev)
	nextFree := !h.allocAt(next)
	size := h.sizeAt(b)

	switch {
	case !prevFree && !nextFree:
		h.insertFree(b)
		return b
	case !prevFree && nextFree:
		h.removeFree(next)
		size += h.sizeAt(next)
		h.setBlock(b, size, false)
		h.insertFree(b)
		return b
	case prevFree && !nextFree:
		h.removeFree(prev)
		size += h.sizeAt(prev)
		h.setBlock(prev, size, false)
		h.insertFree(prev)
		return prev
	default:
		h.removeFree(prev)
		h.removeFree(next)
		size += h.sizeAt(prev) + h.sizeAt(next)
		h.setBlock(prev, size, false)
		h.insertFree(prev)
		return prev
	}
}
