// Package gc implements a two-generation Cheney-style copying collector
// for a small managed-object runtime. This file hosts construction and
// the mutator-facing allocator.
package gc

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/avrong/stella-gc-go/internal/rawheap"
)

// Collector owns two generations, a root stack, a remembered set, and the
// allocation/barrier counters in a single explicit value, so a process can
// run more than one independent heap (notably, so tests can) instead of
// relying on process-wide globals.
type Collector struct {
	cfg     Config
	g0      *Generation
	g1      *Generation
	roots   *rootStack
	changed *rememberedSet
	stats   Stats
}

// NewCollector builds a Collector and eagerly allocates both generations'
// spaces. There is no lazy first-allocation initialization step: construction
// is the initialization.
func NewCollector(cfg Config) (*Collector, error) {
	cfg.setDefaults()
	if cfg.FieldCount == nil {
		return nil, fmt.Errorf("gc: Config.FieldCount is required")
	}

	g1From, err := rawheap.NewHeap(1, cfg.G1Size)
	if err != nil {
		return nil, fmt.Errorf("gc: allocating G1 from-space: %w", err)
	}
	g1To, err := rawheap.NewHeap(1, cfg.G1Size)
	if err != nil {
		return nil, fmt.Errorf("gc: allocating G1 to-space: %w", err)
	}
	g0From, err := rawheap.NewHeap(0, cfg.G0Size)
	if err != nil {
		return nil, fmt.Errorf("gc: allocating G0 from-space: %w", err)
	}

	g1 := &Generation{Number: 1, FromSpace: g1From, ToSpace: g1To}
	// G0's to-space aliases G1's from-space: promoting an object out of
	// the nursery is exactly a bump allocation into this same heap, so
	// there is no separate G0-to-space buffer to keep in sync.
	g0 := &Generation{Number: 0, FromSpace: g0From, ToSpace: g1From}

	c := &Collector{
		cfg:     cfg,
		g0:      g0,
		g1:      g1,
		roots:   newRootStack(cfg.MaxRoots),
		changed: newRememberedSet(cfg.MaxChangedNodes),
	}
	c.cfg.Logger.Debug("collector initialized",
		zap.Uintptr("g0_size", cfg.G0Size),
		zap.Uintptr("g1_size", cfg.G1Size),
	)
	return c, nil
}

// Alloc reserves sizeInBytes bytes for a new mutator-visible object in G0
// and returns the address of its header. On G0 exhaustion it triggers a G0
// collection and retries once; a second failure is terminal OOM.
//
// The returned object's forwarding slot is null and its header word is
// zero; the mutator must set the header and initialize every field before
// any store that publishes the object to other live objects, since the
// collector identifies pointers by range test and would otherwise
// misidentify stale or uninitialized bit patterns.
func (c *Collector) Alloc(sizeInBytes uintptr) uintptr {
	size := ptrSize + sizeInBytes

	addr, ok := c.g0.FromSpace.Alloc(size)
	if !ok {
		c.collectGen0()
		addr, ok = c.g0.FromSpace.Alloc(size)
	}
	if !ok {
		c.fatalOOM(c.g0, "G0 allocation failed twice in a row")
	}

	c.recordAlloc(sizeInBytes)
	return objectOf(addr)
}

func (c *Collector) fatalOOM(gen *Generation, reason string) {
	c.cfg.Logger.Error("Out of memory", zap.Int("generation", gen.Number), zap.String("reason", reason))
	c.cfg.ExitFunc(OOMExitCode)
	// ExitFunc is expected to terminate the process (or, in tests, to
	// panic/longjmp out); if it returns, stop making forward progress
	// with inconsistent heap state rather than pretend allocation
	// succeeded.
	panic(fmt.Sprintf("gc: fatal out of memory (%s) and ExitFunc returned", reason))
}
