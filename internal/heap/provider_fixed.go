package heap

import (
	"fmt"
	"unsafe"
)

// FixedProvider is a HeapProvider backed by a single preallocated Go
// slice, grounded on the bump-pointer arena in the runtime's region
// allocator: the whole capacity is committed up front and Extend is a
// bounds-checked high-water-mark bump, never a reallocation (which would
// move the region and violate the sbrk contract).
type FixedProvider struct {
	buf  []byte
	base uintptr
	used int
}

// NewFixedProvider reserves capacity bytes and returns a provider ready
// for Extend calls.
func NewFixedProvider(capacity int) (*FixedProvider, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("heap: fixed provider capacity must be positive, got %d", capacity)
	}
	buf := make([]byte, capacity)
	return &FixedProvider{
		buf:  buf,
		base: uintptr(unsafe.Pointer(&buf[0])),
	}, nil
}

func (p *FixedProvider) Extend(n uintptr) (uintptr, error) {
	if p.used+int(n) > len(p.buf) {
		return 0, fmt.Errorf("heap: fixed provider exhausted: capacity %d, used %d, requested %d", len(p.buf), p.used, n)
	}
	addr := p.base + uintptr(p.used)
	p.used += int(n)
	return addr, nil
}

func (p *FixedProvider) Lo() uintptr { return p.base }

func (p *FixedProvider) Hi() uintptr {
	if p.used == 0 {
		return p.base - 1
	}
	return p.base + uintptr(p.used) - 1
}

func (p *FixedProvider) Bytes() []byte { return p.buf[:p.used] }
