package gc

import "github.com/avrong/stella-gc-go/internal/rawheap"

// Object layout:
//
//	wrapper_addr : forwarding slot (1 word)
//	object_addr  : header (1 word), field[0], field[1], ... field[n-1]
//
// wrapper_addr + PtrSize == object_addr always holds.

const ptrSize = rawheap.PtrSize

// wrapperOf returns the wrapper address for a mutator-visible object
// address.
func wrapperOf(objAddr uintptr) uintptr {
	return objAddr - ptrSize
}

// objectOf returns the mutator-visible object address for a wrapper.
func objectOf(wrapperAddr uintptr) uintptr {
	return wrapperAddr + ptrSize
}

func forwardedSlot(wrapperAddr uintptr) uintptr {
	return rawheap.ReadUintptr(wrapperAddr)
}

func setForwardedSlot(wrapperAddr, value uintptr) {
	rawheap.WriteUintptr(wrapperAddr, value)
}

func headerOf(objAddr uintptr) uintptr {
	return rawheap.ReadUintptr(objAddr)
}

func setHeaderOf(objAddr, header uintptr) {
	rawheap.WriteUintptr(objAddr, header)
}

func fieldAddr(objAddr uintptr, index int) uintptr {
	return objAddr + ptrSize + uintptr(index)*ptrSize
}

func fieldOf(objAddr uintptr, index int) uintptr {
	return rawheap.ReadUintptr(fieldAddr(objAddr, index))
}

func setFieldOf(objAddr uintptr, index int, value uintptr) {
	rawheap.WriteUintptr(fieldAddr(objAddr, index), value)
}

// wrapperSize is the total byte span of an object carrying fieldCount
// fields: one word for the forwarding slot, one for the header, one per
// field.
func wrapperSize(fieldCount int) uintptr {
	return 2*ptrSize + uintptr(fieldCount)*ptrSize
}

// ObjectSize returns the mutator-visible size, in bytes, of an object
// carrying fieldCount fields: one header word plus one word per field.
// This is the sizeInBytes argument Collector.Alloc expects; Alloc adds
// the forwarding slot's extra word itself.
func ObjectSize(fieldCount int) uintptr {
	return ptrSize + uintptr(fieldCount)*ptrSize
}

// FieldCounter recovers the number of pointer-width field slots from an
// object's header word. This is the single piece of host object-layout
// knowledge the collector depends on; everything else about the header's
// bit layout belongs to the host runtime.
type FieldCounter func(header uintptr) int

func (c *Collector) wrapperSizeAt(wrapperAddr uintptr) uintptr {
	header := headerOf(objectOf(wrapperAddr))
	return wrapperSize(c.cfg.FieldCount(header))
}
