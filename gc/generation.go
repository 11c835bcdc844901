package gc

import "github.com/avrong/stella-gc-go/internal/rawheap"

// Generation is a from-space/to-space pair plus the Cheney scan cursor.
// G0 is the nursery; G1 is the mature generation. G0's to-space is aliased
// to G1's from-space by both Generation values holding the identical
// *rawheap.Heap.
type Generation struct {
	Number    int
	Cycles    int
	scan      uintptr
	FromSpace *rawheap.Heap
	ToSpace   *rawheap.Heap
}

// walkLive walks h linearly, invoking visit with the wrapper address of
// every object currently allocated there. Used for G1's extra root scan
// over G0's live set.
func (c *Collector) walkLive(h *rawheap.Heap, visit func(wrapperAddr uintptr)) {
	for addr := h.Start(); addr < h.Next(); {
		visit(addr)
		addr += c.wrapperSizeAt(addr)
	}
}
