//go:build unix

package heap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MmapProvider is a HeapProvider backed by a single anonymous, demand-paged
// mmap reservation. The whole maximum heap size is reserved as virtual
// address space once; Extend never calls mmap again, it only bumps a
// high-water mark, so pages are faulted in lazily by the OS as the
// allocator actually touches them.
type MmapProvider struct {
	buf  []byte
	base uintptr
	used int
}

// NewMmapProvider reserves capacity bytes of anonymous virtual memory.
func NewMmapProvider(capacity int) (*MmapProvider, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("heap: mmap provider capacity must be positive, got %d", capacity)
	}
	data, err := unix.Mmap(-1, 0, capacity, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("heap: mmap reservation of %d bytes failed: %w", capacity, err)
	}
	return &MmapProvider{
		buf:  data,
		base: uintptr(unsafe.Pointer(&data[0])),
	}, nil
}

func (p *MmapProvider) Extend(n uintptr) (uintptr, error) {
	if p.used+int(n) > len(p.buf) {
		return 0, fmt.Errorf("heap: mmap provider exhausted: reserved %d, used %d, requested %d", len(p.buf), p.used, n)
	}
	addr := p.base + uintptr(p.used)
	p.used += int(n)
	return addr, nil
}

func (p *MmapProvider) Lo() uintptr { return p.base }

func (p *MmapProvider) Hi() uintptr {
	if p.used == 0 {
		return p.base - 1
	}
	return p.base + uintptr(p.used) - 1
}

func (p *MmapProvider) Bytes() []byte { return p.buf[:p.used] }

// Close releases the reservation back to the OS. Unused before Close, the
// region stays reserved for the provider's entire lifetime, matching the
// non-goal of never returning memory to the OS while the heap is live.
func (p *MmapProvider) Close() error {
	return unix.Munmap(p.buf)
}
