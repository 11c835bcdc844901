package gc

import (
	"os"

	"go.uber.org/zap"

	"github.com/avrong/stella-gc-go/gc/metrics"
)

// Default bounds: G0 4096 bytes, G1 8192 bytes, 1024 roots, 4096 remembered
// entries.
const (
	DefaultG0Size          = 4096
	DefaultG1Size          = 2 * DefaultG0Size
	DefaultMaxRoots        = 1024
	DefaultMaxChangedNodes = 4096

	// OOMExitCode is the stable exit code for terminal out-of-memory.
	OOMExitCode = 137
)

// Config parameterizes a Collector. Only FieldCount is mandatory; every
// other field defaults to the bounds above when zero, so tests can shrink
// the heaps without repeating the defaults.
type Config struct {
	// G0Size and G1Size are the nursery and mature generation sizes in
	// bytes.
	G0Size uintptr
	G1Size uintptr

	// MaxRoots and MaxChangedNodes bound the root stack and the
	// remembered set. Exceeding either is a fatal invariant violation.
	MaxRoots        int
	MaxChangedNodes int

	// FieldCount recovers the field count from an object's header word.
	// Required: the collector cannot walk any object without it.
	FieldCount FieldCounter

	// Logger receives structured collection and diagnostic events. A nil
	// Logger means zap.NewNop().
	Logger *zap.Logger

	// Metrics, when non-nil, is updated alongside the Collector's own
	// counters so the process's /metrics endpoint reflects GC activity.
	Metrics *metrics.Metrics

	// ExitFunc is called with OOMExitCode on terminal out-of-memory.
	// Defaults to os.Exit; tests override it to observe the condition
	// without killing the test binary.
	ExitFunc func(code int)
}

func (c *Config) setDefaults() {
	if c.G0Size == 0 {
		c.G0Size = DefaultG0Size
	}
	if c.G1Size == 0 {
		c.G1Size = DefaultG1Size
	}
	if c.MaxRoots == 0 {
		c.MaxRoots = DefaultMaxRoots
	}
	if c.MaxChangedNodes == 0 {
		c.MaxChangedNodes = DefaultMaxChangedNodes
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.ExitFunc == nil {
		c.ExitFunc = os.Exit
	}
}
