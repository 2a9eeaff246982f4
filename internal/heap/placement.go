package heap

// findFit walks size classes from the smallest able to hold size upward,
// and within each class keeps scanning until it has found a fit and has
// examined more than cfg.SearchBound blocks, then accepts the best fit seen
// so far — the bounded first-best-fit the original source calls
// FIRST_BEST_FIT.
func (h *Heap) findFit(size uint32) (uint32, bool) {
	for c := classFor(size); c < classCount; c++ {
		var best uint32
		var bestSize uint32
		examined := 0
		for b := h.classHead(c); b != 0; b = h.nextFree(b) {
			bsize := h.sizeAt(b)
			if bsize >= size {
				if best == 0 || bsize < bestSize {
					best, bestSize = b, bsize
				}
			}
			examined++
			if best != 0 && examined > h.cfg.SearchBound {
				break
			}
		}
		if best != 0 {
			return best, true
		}
	}
	return 0, false
}

// place removes b from its free list and carves out a size-byte allocated
// block at its address, returning leftover bytes to the coalescer as a new
// free block when the remainder is larger than minBlockSize; otherwise the
// whole block is consumed.
func (h *Heap) place(b, size uint32) uint32 {
	current := h.sizeAt(b)
	h.removeFree(b)
	if current-size > minBlockSize {
		h.setBlock(b, size, true)
		rem := b + size
		h.setBlock(rem, current-size, false)
		h.coalesce(rem)
	} else {
		h.setBlock(b, current, true)
	}
	return b
}
