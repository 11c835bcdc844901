package gc

import (
	"go.uber.org/zap"

	"github.com/avrong/stella-gc-go/internal/rawheap"
)

// HeapInfo is a programmatic, loggable view of one Heap.
type HeapInfo struct {
	GenerationNumber int
	Start            uintptr
	Size             uintptr
	Used             uintptr
	Free             uintptr
}

// GenerationInfo is a programmatic, loggable view of one Generation.
type GenerationInfo struct {
	Number    int
	Cycles    int
	FromSpace HeapInfo
	ToSpace   HeapInfo
}

func heapInfo(h *rawheap.Heap) HeapInfo {
	return HeapInfo{
		GenerationNumber: h.GenerationNumber,
		Start:            h.Start(),
		Size:             h.Size(),
		Used:             h.Used(),
		Free:             h.Free(),
	}
}

func generationInfo(gen *Generation) GenerationInfo {
	return GenerationInfo{
		Number:    gen.Number,
		Cycles:    gen.Cycles,
		FromSpace: heapInfo(gen.FromSpace),
		ToSpace:   heapInfo(gen.ToSpace),
	}
}

// State is the full visible state of a Collector: both generations, the
// live root slots, and the current counters.
type State struct {
	G0    GenerationInfo
	G1    GenerationInfo
	Roots []uintptr
	Stats Stats
}

// Inspect returns a snapshot of the collector's entire visible state. Root
// values are dereferenced at call time, so they reflect whatever the
// mutator currently has stored in each slot.
func (c *Collector) Inspect() State {
	roots := make([]uintptr, c.roots.len())
	for i := range roots {
		roots[i] = *c.roots.at(i)
	}
	return State{
		G0:    generationInfo(c.g0),
		G1:    generationInfo(c.g1),
		Roots: roots,
		Stats: c.stats,
	}
}

// LogState writes the current state to the collector's logger at debug
// level, generation by generation, then the root stack.
func (c *Collector) LogState() {
	st := c.Inspect()
	for _, gi := range []GenerationInfo{st.G0, st.G1} {
		c.cfg.Logger.Debug("generation state",
			zap.Int("generation", gi.Number),
			zap.Int("cycles", gi.Cycles),
			zap.Uintptr("from_used", gi.FromSpace.Used),
			zap.Uintptr("from_free", gi.FromSpace.Free),
			zap.Uintptr("to_used", gi.ToSpace.Used),
			zap.Uintptr("to_free", gi.ToSpace.Free),
		)
	}
	c.cfg.Logger.Debug("root stack",
		zap.Int("count", len(st.Roots)),
		zap.Int("high_water_mark", st.Stats.RootsMaxSize),
	)
}

// danglingRoots reports any non-zero root slot value that does not lie in
// any space (from- or to-space) of either generation. Intended for tests,
// not the mutator fast path.
func (c *Collector) danglingRoots() []uintptr {
	var bad []uintptr
	for i := 0; i < c.roots.len(); i++ {
		v := *c.roots.at(i)
		if v == 0 {
			continue
		}
		if !ptrInAnySpace(c.g0, v) && !ptrInAnySpace(c.g1, v) {
			bad = append(bad, v)
		}
	}
	return bad
}
