package gc

// Stats holds the allocation totals and barrier-call counters a caller can
// snapshot for diagnostics or tests.
type Stats struct {
	TotalAllocatedBytes   int64
	TotalAllocatedObjects int64
	MaxAllocatedBytes     int64
	MaxAllocatedObjects   int64
	TotalReads            int64
	TotalWrites           int64
	RootsMaxSize          int
	G0Cycles              int
	G1Cycles              int
}

func (c *Collector) recordAlloc(sizeInBytes uintptr) {
	c.stats.TotalAllocatedBytes += int64(sizeInBytes)
	c.stats.TotalAllocatedObjects++
	if c.stats.TotalAllocatedBytes > c.stats.MaxAllocatedBytes {
		c.stats.MaxAllocatedBytes = c.stats.TotalAllocatedBytes
	}
	if c.stats.TotalAllocatedObjects > c.stats.MaxAllocatedObjects {
		c.stats.MaxAllocatedObjects = c.stats.TotalAllocatedObjects
	}
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.ObserveAlloc(float64(sizeInBytes))
	}
}

// Snapshot returns a copy of the collector's current counters.
func (c *Collector) Snapshot() Stats {
	return c.stats
}
