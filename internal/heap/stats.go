package heap

// Stats is a point-in-time snapshot of allocator activity, returned by
// value so callers (including internal/diag's JSON encoder) can read it
// without reaching back into the heap.
type Stats struct {
	AllocCount     uint64
	FreeCount      uint64
	BytesAllocated uint64
	BytesFreed     uint64
	BytesInUse     uint64
	PeakBytesInUse uint64
	HeapExtensions uint64
	HeapBytes      uint64
}

func (s *Stats) recordAlloc(blockSize uint32) {
	s.AllocCount++
	s.BytesAllocated += uint64(blockSize)
	s.BytesInUse += uint64(blockSize)
	if s.BytesInUse > s.PeakBytesInUse {
		s.PeakBytesInUse = s.BytesInUse
	}
}

func (s *Stats) recordFree(blockSize uint32) {
	s.FreeCount++
	s.BytesFreed += uint64(blockSize)
	s.BytesInUse -= uint64(blockSize)
}

func (s *Stats) recordExtend(n uint32) {
	s.HeapExtensions++
	s.HeapBytes += uint64(n)
}

// Stats returns a copy of the heap's current statistics.
func (h *Heap) Stats() Stats { return h.stats }
