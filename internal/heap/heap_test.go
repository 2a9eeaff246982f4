package heap

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func newTestHeap(t *testing.T, capacity int, opts ...Option) *Heap {
	t.Helper()
	p, err := NewFixedProvider(capacity)
	if err != nil {
		t.Fatalf("NewFixedProvider(%d): %v", capacity, err)
	}
	h := New(p, opts...)
	if err := h.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return h
}

func TestInitProducesConsistentHeap(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	if err := h.CheckHeap(false); err != nil {
		t.Fatalf("CheckHeap after Init: %v", err)
	}
}

func TestAllocReturnsUsablePayload(t *testing.T) {
	h := newTestHeap(t, 1<<16)

	p, err := h.Alloc(100)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if p.IsNull() {
		t.Fatalf("Alloc(100) returned null")
	}

	buf := h.Bytes(p)
	if len(buf) < 100 {
		t.Fatalf("payload too small: got %d bytes, want >= 100", len(buf))
	}
	for i := range buf {
		buf[i] = byte(i)
	}
	for i, v := range buf {
		if v != byte(i) {
			t.Fatalf("payload byte %d corrupted: got %d want %d", i, v, byte(i))
		}
	}

	if err := h.CheckHeap(false); err != nil {
		t.Fatalf("CheckHeap after alloc: %v", err)
	}
}

func TestAllocZeroReturnsNull(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	p, err := h.Alloc(0)
	if err != nil {
		t.Fatalf("Alloc(0): %v", err)
	}
	if !p.IsNull() {
		t.Fatalf("Alloc(0) = %d, want null", p)
	}
}

func TestFreeThenAllocReusesSpace(t *testing.T) {
	h := newTestHeap(t, 1<<16)

	before := h.Stats()

	a, err := h.Alloc(64)
	if err != nil {
		t.Fatalf("Alloc a: %v", err)
	}
	b, err := h.Alloc(64)
	if err != nil {
		t.Fatalf("Alloc b: %v", err)
	}
	h.Free(a)
	if err := h.CheckHeap(false); err != nil {
		t.Fatalf("CheckHeap after free: %v", err)
	}

	c, err := h.Alloc(64)
	if err != nil {
		t.Fatalf("Alloc c: %v", err)
	}
	if c != a {
		t.Errorf("expected reuse of freed block at %d, got new block at %d", a, c)
	}

	h.Free(b)
	h.Free(c)
	if err := h.CheckHeap(false); err != nil {
		t.Fatalf("CheckHeap after freeing everything: %v", err)
	}

	after := h.Stats()
	if after.AllocCount != before.AllocCount+3 {
		t.Errorf("AllocCount = %d, want %d", after.AllocCount, before.AllocCount+3)
	}
	if after.FreeCount != before.FreeCount+3 {
		t.Errorf("FreeCount = %d, want %d", after.FreeCount, before.FreeCount+3)
	}
}

func TestCoalescingMergesAdjacentFreeBlocks(t *testing.T) {
	h := newTestHeap(t, 1<<16)

	a, _ := h.Alloc(32)
	b, _ := h.Alloc(32)
	c, _ := h.Alloc(32)

	h.Free(a)
	h.Free(c)
	h.Free(b) // should merge a, b, and c's blocks into one run

	if err := h.CheckHeap(false); err != nil {
		t.Fatalf("CheckHeap: %v", err)
	}

	big, err := h.Alloc(100)
	if err != nil {
		t.Fatalf("Alloc(100) after merge: %v", err)
	}
	if big != a {
		t.Errorf("expected merged allocation to land at %d, got %d", a, big)
	}
}

func TestReallocPreservesContentOnGrow(t *testing.T) {
	h := newTestHeap(t, 1<<16)

	p, err := h.Alloc(16)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	buf := h.Bytes(p)
	copy(buf, []byte("0123456789abcdef"))

	q, err := h.Realloc(p, 256)
	if err != nil {
		t.Fatalf("Realloc grow: %v", err)
	}
	got := h.Bytes(q)[:16]
	if !bytes.Equal(got, []byte("0123456789abcdef")) {
		t.Errorf("content not preserved on grow: got %q", got)
	}
}

func TestReallocPreservesContentOnShrink(t *testing.T) {
	h := newTestHeap(t, 1<<16)

	p, err := h.Alloc(256)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	buf := h.Bytes(p)
	copy(buf, []byte("0123456789abcdef"))

	q, err := h.Realloc(p, 8)
	if err != nil {
		t.Fatalf("Realloc shrink: %v", err)
	}
	got := h.Bytes(q)
	if !bytes.Equal(got, []byte("01234567")) {
		t.Errorf("content not preserved on shrink: got %q", got)
	}
}

func TestReallocNullActsAsAlloc(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	p, err := h.Realloc(0, 32)
	if err != nil {
		t.Fatalf("Realloc(0, 32): %v", err)
	}
	if p.IsNull() {
		t.Fatalf("Realloc(0, 32) returned null")
	}
}

func TestReallocZeroActsAsFree(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	p, _ := h.Alloc(32)
	q, err := h.Realloc(p, 0)
	if err != nil {
		t.Fatalf("Realloc(p, 0): %v", err)
	}
	if !q.IsNull() {
		t.Fatalf("Realloc(p, 0) = %d, want null", q)
	}
	if err := h.CheckHeap(false); err != nil {
		t.Fatalf("CheckHeap: %v", err)
	}
}

func TestCallocZeroesMemory(t *testing.T) {
	h := newTestHeap(t, 1<<16)

	p, err := h.Alloc(64)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	buf := h.Bytes(p)
	for i := range buf {
		buf[i] = 0xFF
	}
	h.Free(p)

	q, err := h.Calloc(8, 8)
	if err != nil {
		t.Fatalf("Calloc: %v", err)
	}
	for i, v := range h.Bytes(q) {
		if v != 0 {
			t.Fatalf("Calloc byte %d = %#x, want 0", i, v)
		}
	}
}

func TestCallocOverflowRejected(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	_, err := h.Calloc(^uintptr(0), 2)
	if err == nil {
		t.Fatalf("Calloc(MaxUintptr, 2): expected overflow error, got nil")
	}
	var herr *Error
	if !errors.As(err, &herr) || herr.Code != ErrInvalidSize {
		t.Fatalf("Calloc overflow error = %v, want ErrInvalidSize", err)
	}
}

func TestCallocZeroArgsReturnsNull(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	p, err := h.Calloc(0, 8)
	if err != nil || !p.IsNull() {
		t.Fatalf("Calloc(0, 8) = (%d, %v), want (null, nil)", p, err)
	}
	p, err = h.Calloc(8, 0)
	if err != nil || !p.IsNull() {
		t.Fatalf("Calloc(8, 0) = (%d, %v), want (null, nil)", p, err)
	}
}

func TestOutOfMemoryReturnsError(t *testing.T) {
	h := newTestHeap(t, firstBlockOffset+defaultChunkSize)
	var last error
	for i := 0; i < 10000; i++ {
		if _, err := h.Alloc(64); err != nil {
			last = err
			break
		}
	}
	if last == nil {
		t.Fatalf("expected an eventual out-of-memory error")
	}
	var herr *Error
	if !errors.As(last, &herr) || herr.Code != ErrOutOfMemory {
		t.Fatalf("error = %v, want ErrOutOfMemory", last)
	}
}

// TestRandomizedAllocFreeTrace is the property-style harness: a long random
// sequence of alloc/free operations must never corrupt the heap's
// invariants and must always read back exactly what was written.
func TestRandomizedAllocFreeTrace(t *testing.T) {
	h := newTestHeap(t, 1<<20, WithChunkSize(4096))
	rng := rand.New(rand.NewSource(1))

	type live struct {
		ptr  Ptr
		want []byte
	}
	var alive []live

	for i := 0; i < 2000; i++ {
		if len(alive) == 0 || rng.Intn(3) != 0 {
			n := uintptr(rng.Intn(512) + 1)
			p, err := h.Alloc(n)
			if err != nil {
				t.Fatalf("iteration %d: Alloc(%d): %v", i, n, err)
			}
			want := make([]byte, n)
			rng.Read(want)
			copy(h.Bytes(p), want)
			alive = append(alive, live{p, want})
		} else {
			idx := rng.Intn(len(alive))
			h.Free(alive[idx].ptr)
			alive[idx] = alive[len(alive)-1]
			alive = alive[:len(alive)-1]
		}

		if i%97 == 0 {
			for _, l := range alive {
				if !bytes.Equal(h.Bytes(l.ptr)[:len(l.want)], l.want) {
					t.Fatalf("iteration %d: live block at %d corrupted", i, l.ptr)
				}
			}
			if err := h.CheckHeap(false); err != nil {
				t.Fatalf("iteration %d: CheckHeap: %v", i, err)
			}
		}
	}

	for _, l := range alive {
		if !bytes.Equal(h.Bytes(l.ptr)[:len(l.want)], l.want) {
			t.Fatalf("final check: live block at %d corrupted", l.ptr)
		}
	}
	if err := h.CheckHeap(false); err != nil {
		t.Fatalf("final CheckHeap: %v", err)
	}
}

func TestSearchBoundOptionIsHonored(t *testing.T) {
	h := newTestHeap(t, 1<<16, WithSearchBound(1))
	if h.cfg.SearchBound != 1 {
		t.Fatalf("SearchBound = %d, want 1", h.cfg.SearchBound)
	}

	var ptrs []Ptr
	for i := 0; i < 8; i++ {
		p, err := h.Alloc(32)
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		ptrs = append(ptrs, p)
	}
	for _, p := range ptrs {
		h.Free(p)
	}
	if err := h.CheckHeap(false); err != nil {
		t.Fatalf("CheckHeap: %v", err)
	}
}
