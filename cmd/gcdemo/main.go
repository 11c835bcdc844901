// Command gcdemo drives gc.Collector through a small, entirely synthetic
// mutator: it builds and discards linked "cons cell" objects, pushes and
// pops a root around each forced minor collection, and writes across
// generations through the write barrier. A major collection runs only when
// G1's from-space is too small to absorb a promotion.
//
// It exists to exercise the collector end to end outside of tests, the way
// a command built alongside a runtime library exercises it.
package main

import (
	"fmt"
	"os"

	"github.com/avrong/stella-gc-go/cmd/gcdemo/internal/demo"
)

func main() {
	if err := demo.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
