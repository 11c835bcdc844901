//go:build unix

package rawheap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// NewHeap maps a fresh anonymous, private region of size bytes and returns
// a Heap whose bump frontier starts at the mapping's base address. A single
// flat mapping stands in for one generation's from- or to-space.
func NewHeap(genNumber int, size uintptr) (*Heap, error) {
	b, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("rawheap: mmap %d bytes: %w", size, err)
	}
	start := uintptr(unsafe.Pointer(&b[0]))
	return &Heap{
		GenerationNumber: genNumber,
		start:            start,
		size:             size,
		next:             start,
		backing:          b,
	}, nil
}

// Unmap releases the underlying mapping. A production collector normally
// lives for the process lifetime and never calls this; it exists for tests
// that create many short-lived heaps.
func (h *Heap) Unmap() error {
	if h.backing == nil {
		return nil
	}
	err := unix.Munmap(h.backing)
	h.backing = nil
	return err
}
