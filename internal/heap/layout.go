package heap

import "math/bits"

// Word size and tag geometry. Every header/footer is one 32-bit word
// packing a block size (bits 3..31, always a multiple of 8) and an
// allocation bit (bit 0); bits 1 and 2 are reserved and always zero.
const (
	wordSize   = 4
	headerSize = 4
	footerSize = 4

	// minBlockSize is the smallest legal block: header + link word + footer,
	// rounded up to the 8-byte alignment every block size carries.
	minBlockSize = 16
	minBlockExp  = 4 // log2(minBlockSize)

	classCount      = 20
	classTableBytes = classCount * wordSize // 80

	// reservedWordOffset holds the layout-version tag (internal/version),
	// stamped once by Init and checked by anything that attaches to an
	// existing heap image out of band (internal/diag).
	reservedWordOffset = classTableBytes // 80

	// prologueHeaderOffset is where the prologue block's header lives, past
	// the class table and the reserved word.
	prologueHeaderOffset = reservedWordOffset + wordSize // 84
	prologueSize         = minBlockSize                  // 16

	// firstBlockOffset is the header offset of the first real block, once
	// Init has placed the prologue.
	firstBlockOffset = prologueHeaderOffset + prologueSize // 100

	defaultChunkSize   = 256
	defaultSearchBound = 7 // MAX_SEARCH_FREE_BLOCK in the original source
)

const sizeMask uint32 = ^uint32(7)
const allocBit uint32 = 0x1

func pack(size uint32, alloc bool) uint32 {
	w := size & sizeMask
	if alloc {
		w |= allocBit
	}
	return w
}

func sizeOf(word uint32) uint32 { return word & sizeMask }
func allocOf(word uint32) bool  { return word&allocBit != 0 }

func alignUp32(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}

// classFor returns the size class a free block of the given size belongs
// to. Class k covers (2^(k+minBlockExp-1), 2^(k+minBlockExp)], except class
// 0 which additionally absorbs everything at or below minBlockSize, and the
// top class which absorbs everything above its lower bound.
func classFor(size uint32) int {
	if size < minBlockSize {
		size = minBlockSize
	}
	k := bits.Len32(size-1) - minBlockExp
	if k < 0 {
		k = 0
	}
	if k >= classCount {
		k = classCount - 1
	}
	return k
}
