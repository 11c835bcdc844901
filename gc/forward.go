package gc

// forward resolves p to its copied location in gen's to-space, copying it
// there first (via chase) if this is the first time p has been seen this
// cycle. Pointers outside gen's from-space are returned unchanged; they
// are not managed by this generation's current collection (opaque
// non-pointer values take the same path, since pointer-ness is determined
// purely by the range test).
func (c *Collector) forward(gen *Generation, p uintptr) uintptr {
	if !gen.FromSpace.Contains(p) {
		return p
	}

	w := wrapperOf(p)
	if gen.ToSpace.Contains(forwardedSlot(w)) {
		return objectOf(forwardedSlot(w))
	}

	if !c.chase(gen, w) {
		if gen.ToSpace.GenerationNumber == gen.FromSpace.GenerationNumber {
			c.fatalOOM(gen, "chase failed copying within a single generation")
		}
		// A G0 chase overflowing G1's from-space: collectGen0 already
		// runs a G1 collection ahead of time when the promotion's upper
		// bound will not fit, so reaching here means G1's live set left
		// too little room even after that collection. There is no way to
		// recover mid-chase, so this is fatal.
		c.fatalOOM(gen, "G0 promotion overflowed G1's from-space mid-chase")
	}

	return objectOf(forwardedSlot(w))
}

// chase is Cheney's algorithm with chase: copy w to a fresh to-space slot,
// then descend into at most one not-yet-forwarded child (r), leaving
// siblings for the driver's Cheney scan loop. This bounds chase's own
// stack usage to O(1) regardless of graph shape.
func (c *Collector) chase(gen *Generation, w uintptr) bool {
	for w != 0 {
		size := c.wrapperSizeAt(w)
		q, ok := gen.ToSpace.Alloc(size)
		if !ok {
			return false
		}

		setForwardedSlot(q, 0)
		setHeaderOf(objectOf(q), headerOf(objectOf(w)))

		fieldCount := c.cfg.FieldCount(headerOf(objectOf(w)))
		var r uintptr
		for fi := 0; fi < fieldCount; fi++ {
			v := fieldOf(objectOf(w), fi)
			setFieldOf(objectOf(q), fi, v)

			if gen.FromSpace.Contains(v) {
				childWrapper := wrapperOf(v)
				if !gen.ToSpace.Contains(forwardedSlot(childWrapper)) {
					r = childWrapper
				}
			}
		}

		setForwardedSlot(w, q)
		w = r
	}
	return true
}

// ptrInAnySpace reports whether addr looks like a pointer into either space
// of gen. Used by diagnostics only; the collector itself only ever range
// tests against from-space or to-space individually, never both at once.
func ptrInAnySpace(gen *Generation, addr uintptr) bool {
	return gen.FromSpace.Contains(addr) || gen.ToSpace.Contains(addr)
}
