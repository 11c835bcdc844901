package gc

import "go.uber.org/zap"

// collectGen0 runs a minor collection. It first checks whether G1's
// from-space can absorb the worst case of this promotion: every byte
// currently allocated in G0's from-space, since chase never grows an
// object and promotion can copy no more live bytes than currently exist.
// It runs a G1 collection ahead of time if not. Discovering the shortfall
// mid-chase instead would also be terminal, so pre-collecting G1 here can
// only turn a would-be failure into a success, never the reverse.
func (c *Collector) collectGen0() {
	worstCase := c.g0.FromSpace.Used()
	if c.g1.FromSpace.Free() < worstCase {
		c.cfg.Logger.Debug("pre-collecting G1 to make room for G0 promotion",
			zap.Uintptr("worst_case_bytes", worstCase),
			zap.Uintptr("g1_free_bytes", c.g1.FromSpace.Free()),
		)
		c.collectGen1()
	}
	c.collect(c.g0)
}

// collectGen1 runs a major collection.
func (c *Collector) collectGen1() {
	c.collect(c.g1)
}

// collect runs one collection cycle on gen: forward roots, scan G0 as
// extra roots when collecting G1, drain the remembered set, run the
// Cheney scan loop to completion, then flip or reset spaces.
func (c *Collector) collect(gen *Generation) {
	gen.Cycles++
	c.logCollectionStart(gen)

	gen.scan = gen.ToSpace.Next()

	// Forward root objects.
	for i := 0; i < c.roots.len(); i++ {
		slot := c.roots.at(i)
		*slot = c.forward(gen, *slot)
	}

	// A G1 collection must also treat every object currently live in
	// G0's from-space as a root: G0 has not been collected and may hold
	// pointers into G1's old from-space that nothing else references.
	if gen.FromSpace.GenerationNumber == 1 {
		c.walkLive(c.g0.FromSpace, func(wrapperAddr uintptr) {
			obj := objectOf(wrapperAddr)
			fieldCount := c.cfg.FieldCount(headerOf(obj))
			for fi := 0; fi < fieldCount; fi++ {
				setFieldOf(obj, fi, c.forward(gen, fieldOf(obj, fi)))
			}
		})
	}

	// Drain the remembered set: any object written to since the last G0
	// collection may hold inter-generational pointers that a pure root
	// walk would miss. Reset exactly once, after every entry has been
	// visited. A G1 collection keeps the set for the G0 collection that
	// follows it: each entry is forwarded like a root, so it names the
	// object's new address and the scan below visits its fields.
	if gen.FromSpace.GenerationNumber == 1 {
		for i, obj := range c.changed.objs {
			c.changed.objs[i] = c.forward(gen, obj)
		}
	} else {
		c.changed.drain(func(obj uintptr) {
			fieldCount := c.cfg.FieldCount(headerOf(obj))
			for fi := 0; fi < fieldCount; fi++ {
				setFieldOf(obj, fi, c.forward(gen, fieldOf(obj, fi)))
			}
		})
	}

	// Cheney scan: objects already copied into to-space may themselves
	// hold pointers that still need forwarding.
	for gen.scan < gen.ToSpace.Next() {
		obj := objectOf(gen.scan)
		fieldCount := c.cfg.FieldCount(headerOf(obj))
		for fi := 0; fi < fieldCount; fi++ {
			setFieldOf(obj, fi, c.forward(gen, fieldOf(obj, fi)))
		}
		gen.scan += c.wrapperSizeAt(gen.scan)
	}

	c.flipOrReset(gen)
	c.logCollectionEnd(gen)
}

// flipOrReset reclaims the collected generation's old from-space and
// repoints the spaces that aliased it.
func (c *Collector) flipOrReset(gen *Generation) {
	if gen.FromSpace.GenerationNumber == gen.ToSpace.GenerationNumber {
		// A G1 collection: swap from/to, reset the new to-space, and
		// re-alias G0's to-space to the new G1 from-space.
		gen.FromSpace, gen.ToSpace = gen.ToSpace, gen.FromSpace
		gen.ToSpace.Reset()
		c.g0.ToSpace = gen.FromSpace
		c.g0.scan = gen.FromSpace.Start()
		return
	}

	// A G0 collection that promoted its live set into G1's from-space:
	// reclaim G0's from-space wholesale and re-point G0's to-space at
	// G1's (now larger) from-space.
	current := c.g0
	if gen.FromSpace.GenerationNumber != 0 {
		current = c.g1
	}
	next := c.g0
	if gen.ToSpace.GenerationNumber != 0 {
		next = c.g1
	}
	current.FromSpace.Reset()
	current.ToSpace = next.FromSpace
}

func (c *Collector) logCollectionStart(gen *Generation) {
	c.cfg.Logger.Debug("gc collect start",
		zap.Int("generation", gen.Number),
		zap.Int("cycle", gen.Cycles),
		zap.Uintptr("from_used", gen.FromSpace.Used()),
	)
}

func (c *Collector) logCollectionEnd(gen *Generation) {
	if gen.Number == 0 {
		c.stats.G0Cycles++
	} else {
		c.stats.G1Cycles++
	}
	c.cfg.Logger.Debug("gc collect end",
		zap.Int("generation", gen.Number),
		zap.Uintptr("to_used", gen.ToSpace.Used()),
	)
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.ObserveCycle(gen.Number)
	}
}
