package heap

import (
	"fmt"
	"strings"
)

// CheckHeap walks the whole heap and its free lists, reporting every
// invariant violation it finds. When verbose is true each violation is
// also written to the heap's diagnostic writer as it is found, in
// mm_checkheap's one-line-per-violation style. CheckHeap returns nil when
// the heap is consistent, or a *Error with Code ErrCorrupted joining every
// violation message otherwise.
func (h *Heap) CheckHeap(verbose bool) error {
	var violations []string
	report := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		violations = append(violations, msg)
		if verbose {
			fmt.Fprintln(h.diagOut, msg)
		}
	}

	if h.sizeAt(prologueHeaderOffset) != prologueSize || !h.allocAt(prologueHeaderOffset) {
		report("Prologue block error: size=%d alloc=%v", h.sizeAt(prologueHeaderOffset), h.allocAt(prologueHeaderOffset))
	}

	blockStarts := make(map[uint32]bool)
	b := uint32(firstBlockOffset)
	for h.sizeAt(b) != 0 {
		blockStarts[b] = true
		size := h.sizeAt(b)
		header := h.readWord(b)
		footer := h.readWord(h.footerOff(b))
		if header != footer {
			report("Header and footer size error at block %d", b)
		}
		if payloadOffset(b)%8 != 0 {
			report("Block alignment error at block %d", b)
		}
		next := b + size
		if h.prevBlock(next) != b {
			report("Block continuous error at block %d", b)
		}
		b = next
	}
	if !h.allocAt(b) || h.sizeAt(b) != 0 {
		report("Epilogue block error at %d", b)
	}
	if b != h.epilogue {
		report("Heap boundary error: expected epilogue at %d, found walk ending at %d", h.epilogue, b)
	}

	b = firstBlockOffset
	for h.sizeAt(b) != 0 {
		next := h.nextBlock(b)
		if h.sizeAt(next) != 0 && !h.allocAt(b) && !h.allocAt(next) {
			report("Merge error at block %d", b)
		}
		b = next
	}

	heapLen := uint32(len(h.provider.Bytes()))
	for c := 0; c < classCount; c++ {
		seen := make(map[uint32]bool)
		for fb := h.classHead(c); fb != 0; fb = h.nextFree(fb) {
			if fb >= heapLen {
				report("Free list boundary error at block %d (class %d)", fb, c)
				break
			}
			if !blockStarts[fb] {
				report("Free list entry at %d (class %d) does not land on a real block boundary", fb, c)
				break
			}
			if h.allocAt(fb) {
				report("Allocated block in the free list at %d", fb)
			}
			if got := classFor(h.sizeAt(fb)); got != c {
				report("Block in wrong size class at %d: size=%d belongs in class %d, found in class %d", fb, h.sizeAt(fb), got, c)
			}
			if seen[fb] {
				report("Free list cycle detected at %d (class %d)", fb, c)
				break
			}
			seen[fb] = true
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return &Error{Code: ErrCorrupted, Message: strings.Join(violations, "; ")}
}
