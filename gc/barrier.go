package gc

// PushRoot registers slot as a GC root. Call on scope entry, before the
// slot's pointer is first read by the collector.
func (c *Collector) PushRoot(slot *uintptr) {
	c.roots.push(slot)
	if c.roots.len() > c.stats.RootsMaxSize {
		c.stats.RootsMaxSize = c.roots.len()
	}
}

// PopRoot unregisters slot. Must be called in strict LIFO order paired with
// PushRoot.
func (c *Collector) PopRoot(slot *uintptr) {
	c.roots.pop(slot)
}

// ReadBarrier must be invoked on every managed field load. It has no
// semantic effect beyond accounting; there is no lazy forwarding path to
// trigger.
func (c *Collector) ReadBarrier(objAddr uintptr, fieldIndex int) {
	c.stats.TotalReads++
}

// WriteBarrier must be invoked on every managed field store. It does not
// perform the store itself, the mutator does that; it only records that
// objAddr may now hold a pointer needing attention at the next collection.
func (c *Collector) WriteBarrier(objAddr uintptr, fieldIndex int, newValue uintptr) {
	c.stats.TotalWrites++
	c.changed.append(objAddr)
}

// Field reads field i of objAddr through the read barrier.
func (c *Collector) Field(objAddr uintptr, i int) uintptr {
	c.ReadBarrier(objAddr, i)
	return fieldOf(objAddr, i)
}

// SetField performs the field store and then runs the write barrier; either
// ordering is fine since nothing reads objAddr's field concurrently.
func (c *Collector) SetField(objAddr uintptr, i int, value uintptr) {
	setFieldOf(objAddr, i, value)
	c.WriteBarrier(objAddr, i, value)
}

// SetHeader and InitField initialize a freshly allocated object's header
// and fields before it is published to any other live object. Neither
// goes through a barrier: the object is not yet reachable from anything
// the collector would scan, so there is nothing to record. The mutator is
// responsible for calling both before any store that would publish the
// object to a reachable slot or field.
func (c *Collector) SetHeader(objAddr, header uintptr) {
	setHeaderOf(objAddr, header)
}

func (c *Collector) InitField(objAddr uintptr, i int, value uintptr) {
	setFieldOf(objAddr, i, value)
}
