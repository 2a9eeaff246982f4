//go:build debug

package heap

// Debug builds revalidate the exact block Alloc/Free just touched,
// mirroring block_manager_debug.go's strict per-operation assertions. This
// is compiled out entirely in release builds (heap_debug_off.go) so
// shipped binaries pay nothing for it.

func (h *Heap) debugPostAlloc(p Ptr) {
	if p == 0 {
		return
	}
	b := blockOffset(uint32(p))
	header := h.readWord(b)
	footer := h.readWord(h.footerOff(b))
	if header != footer {
		panic("heap: debug: header/footer mismatch immediately after alloc")
	}
	if !allocOf(header) {
		panic("heap: debug: alloc bit clear on a block just allocated")
	}
}

func (h *Heap) debugPreFree(p Ptr) {
	b := blockOffset(uint32(p))
	header := h.readWord(b)
	footer := h.readWord(h.footerOff(b))
	if header != footer {
		panic("heap: debug: header/footer mismatch before free")
	}
	if !allocOf(header) {
		panic("heap: debug: double free detected")
	}
}
