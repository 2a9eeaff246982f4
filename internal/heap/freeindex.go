package heap

// The class table occupies the first classTableBytes bytes of the heap:
// classCount words, each the block address of that class's free-list head
// (0 meaning empty), in the manner of the original source's seg_list array
// but address-based rather than pointer-based.

func (h *Heap) classHead(c int) uint32 { return h.readWord(uint32(c * wordSize)) }
func (h *Heap) setClassHead(c int, b uint32) {
	h.writeWord(uint32(c*wordSize), b)
}

// insertFree prepends b to its size class's chain.
func (h *Heap) insertFree(b uint32) {
	c := classFor(h.sizeAt(b))
	h.setNextFree(b, h.classHead(c))
	h.setClassHead(c, b)
}

// removeFree unlinks b from its size class's chain. b's header size must
// still reflect the size it had while linked.
func (h *Heap) removeFree(b uint32) {
	c := classFor(h.sizeAt(b))
	head := h.classHead(c)
	if head == b {
		h.setClassHead(c, h.nextFree(b))
		h.setNextFree(b, 0)
		return
	}
	for prev := head; prev != 0; prev = h.nextFree(prev) {
		if next := h.nextFree(prev); next == b {
			h.setNextFree(prev, h.nextFree(b))
			h.setNextFree(b, 0)
			return
		}
	}
}
