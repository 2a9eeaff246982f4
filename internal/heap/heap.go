package heap

import (
	"io"
	"math"
	"os"

	"github.com/orizon-lang/sbrkheap/internal/version"
)

// Ptr is an opaque handle to a live allocation: a 32-bit offset from the
// heap's base address. The zero value is null and is never a valid
// allocation, since real payloads always start past the class table,
// reserved word, and prologue.
type Ptr uint32

// IsNull reports whether p is the null pointer.
func (p Ptr) IsNull() bool { return p == 0 }

// Config controls allocator policy. Use DefaultConfig and the With*
// functional options to build one, in the same shape internal/allocator's
// Config/Option pair used.
type Config struct {
	// ChunkSize is the minimum number of bytes requested from the
	// HeapProvider each time the heap must grow.
	ChunkSize uint32
	// SearchBound bounds findFit's scan of a size class: once a fit has been
	// found and more than SearchBound blocks of the class examined, it
	// settles for the best one seen.
	SearchBound int
}

// DefaultConfig returns the allocator's default policy.
func DefaultConfig() Config {
	return Config{
		ChunkSize:   defaultChunkSize,
		SearchBound: defaultSearchBound,
	}
}

// Option configures a Config.
type Option func(*Config)

// WithChunkSize overrides the heap's extension granularity.
func WithChunkSize(n uint32) Option {
	return func(c *Config) { c.ChunkSize = n }
}

// WithSearchBound overrides the bounded best-fit search cutoff.
func WithSearchBound(n int) Option {
	return func(c *Config) { c.SearchBound = n }
}

// Heap is a boundary-tag allocator over a HeapProvider-supplied region. A
// Heap is not safe for concurrent use; callers must serialize their own
// access.
type Heap struct {
	provider HeapProvider
	base     uintptr
	epilogue uint32
	cfg      Config
	stats    Stats
	diagOut  io.Writer
}

// New creates a Heap over provider. Callers must call Init before using it.
func New(provider HeapProvider, opts ...Option) *Heap {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Heap{
		provider: provider,
		cfg:      cfg,
		diagOut:  os.Stderr,
	}
}

// SetDiagWriter redirects CheckHeap's verbose diagnostics.
func (h *Heap) SetDiagWriter(w io.Writer) { h.diagOut = w }

// Init lays down the class table, reserved version word, and prologue
// sentinel, then extends the heap once by cfg.ChunkSize so the first
// allocation has somewhere to land.
func (h *Heap) Init() error {
	h.base = h.provider.Lo()

	region, err := h.provider.Extend(uintptr(firstBlockOffset))
	if err != nil {
		return &Error{Code: ErrOutOfMemory, Message: "failed to reserve class table and prologue"}
	}
	if uint32(region-h.base) != 0 {
		return &Error{Code: ErrCorrupted, Message: "heap provider did not begin its region at Lo()"}
	}

	for c := 0; c < classCount; c++ {
		h.setClassHead(c, 0)
	}
	h.writeWord(reservedWordOffset, version.Word())
	h.setBlock(prologueHeaderOffset, prologueSize, true)
	h.epilogue = firstBlockOffset
	h.writeWord(h.epilogue, pack(0, true))
	h.stats = Stats{}

	if _, err := h.extend(h.cfg.ChunkSize); err != nil {
		return err
	}
	return nil
}

const maxRequestSize = uint64(math.MaxUint32) - 64

// blockSizeFor computes the block size (header + payload + footer, rounded
// up to 8 bytes, floored at minBlockSize) needed to hold an n-byte payload.
func blockSizeFor(n uintptr) (uint32, error) {
	if uint64(n) > maxRequestSize {
		return 0, &Error{Code: ErrInvalidSize, Message: "requested size overflows a block size", Size: n}
	}
	total := uint64(n) + headerSize + footerSize
	total = (total + 7) &^ 7
	if total < minBlockSize {
		total = minBlockSize
	}
	return uint32(total), nil
}

// Alloc reserves at least n bytes and returns a handle to the payload.
// Alloc(0) returns the null Ptr, matching malloc(0)'s permitted behavior.
func (h *Heap) Alloc(n uintptr) (Ptr, error) {
	if n == 0 {
		return 0, nil
	}
	size, err := blockSizeFor(n)
	if err != nil {
		return 0, err
	}

	b, ok := h.findFit(size)
	if !ok {
		extendSize := size
		if h.cfg.ChunkSize > extendSize {
			extendSize = h.cfg.ChunkSize
		}
		var err error
		b, err = h.extend(extendSize)
		if err != nil {
			return 0, err
		}
	}

	placed := h.place(b, size)
	h.stats.recordAlloc(size)
	p := Ptr(payloadOffset(placed))
	h.debugPostAlloc(p)
	return p, nil
}

// Free releases the allocation at p. Freeing the null Ptr is a no-op.
func (h *Heap) Free(p Ptr) {
	if p == 0 {
		return
	}
	h.debugPreFree(p)
	b := blockOffset(uint32(p))
	size := h.sizeAt(b)
	h.setBlock(b, size, false)
	h.coalesce(b)
	h.stats.recordFree(size)
}

// payloadSize returns the usable payload length of the block backing p.
func (h *Heap) payloadSize(p Ptr) uint32 {
	b := blockOffset(uint32(p))
	return h.sizeAt(b) - headerSize - footerSize
}

// Realloc resizes the allocation at p to hold n bytes, preserving the
// lesser of the old and new payload sizes' worth of content. Realloc(0, n)
// behaves like Alloc(n); Realloc(p, 0) behaves like Free(p).
func (h *Heap) Realloc(p Ptr, n uintptr) (Ptr, error) {
	if p == 0 {
		return h.Alloc(n)
	}
	if n == 0 {
		h.Free(p)
		return 0, nil
	}

	oldPayload := h.payloadSize(p)
	newPtr, err := h.Alloc(n)
	if err != nil {
		return 0, err
	}

	newPayload := h.payloadSize(newPtr)
	copyLen := oldPayload
	if newPayload < copyLen {
		copyLen = newPayload
	}
	if copyLen > 0 {
		src := h.provider.Bytes()[uint32(p) : uint32(p)+copyLen]
		dst := h.provider.Bytes()[uint32(newPtr) : uint32(newPtr)+copyLen]
		copy(dst, src)
	}

	h.Free(p)
	return newPtr, nil
}

// Calloc allocates space for nmemb elements of size bytes each, zeroed.
// It reports ErrInvalidSize on nmemb*size overflow and never zeroes memory
// it failed to obtain.
func (h *Heap) Calloc(nmemb, size uintptr) (Ptr, error) {
	if nmemb == 0 || size == 0 {
		return 0, nil
	}
	total := nmemb * size
	if total/size != nmemb {
		return 0, &Error{Code: ErrInvalidSize, Message: "nmemb*size overflows"}
	}

	p, err := h.Alloc(total)
	if err != nil {
		return 0, err
	}
	if p == 0 {
		return 0, nil
	}
	buf := h.Bytes(p)
	for i := range buf {
		buf[i] = 0
	}
	return p, nil
}

// Bytes returns a slice over the live payload backing p. The slice is
// invalidated by any subsequent Alloc/Free/Realloc/Calloc call.
func (h *Heap) Bytes(p Ptr) []byte {
	if p == 0 {
		return nil
	}
	n := h.payloadSize(p)
	start := uint32(p)
	return h.provider.Bytes()[start : start+n : start+n]
}
