package heap

import "fmt"

// extend grows the heap by at least n bytes (rounded up to 8-byte
// alignment), turns the old epilogue word into the header of a new free
// block, writes a fresh epilogue past it, and coalesces the new block with
// whatever free block may already border it. It returns the coalesced
// block's address.
func (h *Heap) extend(n uint32) (uint32, error) {
	n = alignUp32(n, 8)
	if n == 0 {
		n = 8
	}
	base, err := h.provider.Extend(uintptr(n))
	if err != nil {
		return 0, &Error{
			Code:    ErrOutOfMemory,
			Message: fmt.Sprintf("extending heap by %d bytes: %v", n, err),
			Size:    uintptr(n),
		}
	}

	newBlock := uint32(base - h.base)
	h.setBlock(newBlock, n, false)
	epilogue := newBlock + n
	h.writeWord(epilogue, pack(0, true))
	h.epilogue = epilogue
	h.stats.recordExtend(n)

	return h.coalesce(newBlock), nil
}
