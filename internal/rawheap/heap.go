// Package rawheap is the unsafe core the rest of this module builds on: a
// byte-addressed, bump-allocated arena and the raw memory access needed to
// walk it. Every unsafe.Pointer conversion the collector needs lives here,
// so the higher-level gc package does only plain uintptr offset arithmetic
// and stays free of unsafe.Pointer casts.
//
// The split mirrors a page-level arena (here, Heap) underneath a
// fixed-size object allocator (here, the gc package's wrapper bump
// allocation).
package rawheap

import "unsafe"

// PtrSize is the width of one machine pointer / forwarding slot.
const PtrSize = unsafe.Sizeof(uintptr(0))

// Add mirrors runtime's add(p, x): pointer arithmetic that keeps the result
// typed as unsafe.Pointer without ever materializing an out-of-bounds Go
// pointer value.
func Add(p unsafe.Pointer, x uintptr) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p) + x)
}

// Heap is a contiguous byte region with a bump-allocation frontier, backed
// by an anonymous mmap region where the platform supports it (see
// heap_mmap.go / heap_fallback.go). GenerationNumber identifies which
// generation owns this region; it is set once by NewHeap and never changes.
// When G0's to-space aliases G1's from-space the region keeps number 1, and
// a G1 flip swaps two regions that both carry 1.
type Heap struct {
	GenerationNumber int
	start            uintptr
	size             uintptr
	next             uintptr
	backing          []byte // keeps the mapping (or fallback arena) alive
}

// Start returns the first address in the region.
func (h *Heap) Start() uintptr { return h.start }

// Size returns the region's total size in bytes.
func (h *Heap) Size() uintptr { return h.size }

// Next returns the current bump frontier.
func (h *Heap) Next() uintptr { return h.next }

// Used returns the number of bytes already reserved.
func (h *Heap) Used() uintptr { return h.next - h.start }

// Free returns the number of bytes still available.
func (h *Heap) Free() uintptr { return h.size - h.Used() }

// Contains reports whether addr falls within [start, start+size). This is
// the range test the collector uses to decide whether a field slot holds a
// from-space pointer: pointer-ness is determined by range-testing against
// known from-space bounds, not by any tag bit.
func (h *Heap) Contains(addr uintptr) bool {
	if h == nil || addr == 0 {
		return false
	}
	return addr >= h.start && addr < h.start+h.size
}

// Alloc reserves n bytes at the bump frontier, zeroes the leading
// PtrSize*2 bytes (the forwarding slot and the header word, so a freshly
// allocated wrapper always starts with forwarded = null and header = 0),
// and advances next. It reports ok=false when the region is full.
func (h *Heap) Alloc(n uintptr) (addr uintptr, ok bool) {
	if h.next+n > h.start+h.size {
		return 0, false
	}
	addr = h.next
	h.next += n
	zero := 2 * PtrSize
	if n < zero {
		zero = n
	}
	clearBytes(addr, zero)
	return addr, true
}

// Reset abandons every object in the region: storage is reclaimed wholesale
// by rewinding next to start. Used when a from-space is retired after a
// collection.
func (h *Heap) Reset() {
	h.next = h.start
}

// ReadUintptr loads one pointer-width word at addr.
func ReadUintptr(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr)) //nolint:govet
}

// WriteUintptr stores one pointer-width word at addr.
func WriteUintptr(addr uintptr, v uintptr) {
	*(*uintptr)(unsafe.Pointer(addr)) = v //nolint:govet
}

func clearBytes(addr uintptr, n uintptr) {
	b := unsafe.Slice((*byte)(unsafe.Pointer(addr)), n) //nolint:govet
	for i := range b {
		b[i] = 0
	}
}
