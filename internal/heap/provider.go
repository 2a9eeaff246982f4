package heap

// HeapProvider supplies the contiguous, non-moving memory region the
// allocator manages, mimicking the sbrk(2) contract: memory only ever
// grows, and once handed out an address never changes again.
type HeapProvider interface {
	// Extend grows the region by n bytes and returns the address of the
	// first new byte, which is always exactly the old Hi()+1 (or Lo(), on
	// the first call from an empty provider).
	Extend(n uintptr) (uintptr, error)

	// Lo is the fixed base address of the region. Valid as soon as the
	// provider is constructed, even before any bytes have been committed.
	Lo() uintptr

	// Hi is the address of the last committed byte. Hi() < Lo() when
	// nothing has been extended yet.
	Hi() uintptr

	// Bytes returns a slice over every committed byte, Bytes()[0]
	// corresponding to address Lo().
	Bytes() []byte
}
