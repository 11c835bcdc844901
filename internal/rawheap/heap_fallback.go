//go:build !unix

package rawheap

import "unsafe"

// NewHeap allocates a plain pinned byte arena for platforms without a
// mmap-style anonymous mapping syscall wired through golang.org/x/sys/unix.
// The Go runtime's own allocator never relocates a live object once it has
// escaped to the heap, so a []byte's backing array is exactly as stable as
// an mmap'd region for our purposes.
func NewHeap(genNumber int, size uintptr) (*Heap, error) {
	b := make([]byte, size)
	start := uintptr(unsafe.Pointer(&b[0]))
	return &Heap{
		GenerationNumber: genNumber,
		start:            start,
		size:             size,
		next:             start,
		backing:          b,
	}, nil
}

// Unmap is a no-op on the fallback arena; the backing slice is released to
// the Go garbage collector once nothing still references this Heap.
func (h *Heap) Unmap() error {
	h.backing = nil
	return nil
}
