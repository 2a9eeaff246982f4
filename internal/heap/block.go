package heap

import "encoding/binary"

// Every function in this file addresses blocks by their header offset (a
// "block address", type uint32) rather than the payload offset exposed to
// callers as a Ptr. payloadOffset/blockOffset convert between the two at
// the API boundary in heap.go.

func (h *Heap) readWord(off uint32) uint32 {
	b := h.provider.Bytes()
	return binary.LittleEndian.Uint32(b[off : off+wordSize])
}

func (h *Heap) writeWord(off uint32, v uint32) {
	b := h.provider.Bytes()
	binary.LittleEndian.PutUint32(b[off:off+wordSize], v)
}

func (h *Heap) sizeAt(b uint32) uint32  { return sizeOf(h.readWord(b)) }
func (h *Heap) allocAt(b uint32) bool   { return allocOf(h.readWord(b)) }
func (h *Heap) footerOff(b uint32) uint32 {
	return b + h.sizeAt(b) - footerSize
}

// setBlock writes matching header and footer words for a block of the
// given size and allocation state at address b.
func (h *Heap) setBlock(b, size uint32, alloc bool) {
	w := pack(size, alloc)
	h.writeWord(b, w)
	h.writeWord(b+size-footerSize, w)
}

func (h *Heap) nextBlock(b uint32) uint32 {
	return b + h.sizeAt(b)
}

// prevBlock recovers the preceding block's address by reading its footer,
// which sits in the four bytes immediately before b.
func (h *Heap) prevBlock(b uint32) uint32 {
	prevSize := sizeOf(h.readWord(b - footerSize))
	return b - prevSize
}

func payloadOffset(b uint32) uint32 { return b + headerSize }
func blockOffset(p uint32) uint32   { return p - headerSize }

// Free-block link field: the next pointer in a size class's singly linked
// chain, stored in the first word of the payload (free blocks have no live
// payload to protect).
func (h *Heap) nextFree(b uint32) uint32    { return h.readWord(payloadOffset(b)) }
func (h *Heap) setNextFree(b, v uint32)     { h.writeWord(payloadOffset(b), v) }
