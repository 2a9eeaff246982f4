//go:build !debug

package heap

func (h *Heap) debugPostAlloc(Ptr) {}
func (h *Heap) debugPreFree(Ptr)   {}
