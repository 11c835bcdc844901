package demo

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/avrong/stella-gc-go/gc"
	"github.com/avrong/stella-gc-go/gc/header"
	gcmetrics "github.com/avrong/stella-gc-go/gc/metrics"
)

// consCell is the one object shape the demo mutator builds: tag 1, two
// fields (value and next) so lists exercise both intra-generational and
// (once promoted) inter-generational pointers.
const consCellTag = 1

const (
	fieldValue = 0
	fieldNext  = 1
)

func runDemo(out io.Writer, logger *zap.Logger, opts *options) error {
	m := gcmetrics.New("gcdemo", "collector")
	reg := prometheus.NewRegistry()
	m.MustRegister(reg)

	collector, err := gc.NewCollector(gc.Config{
		G0Size:     uintptr(opts.g0Size),
		G1Size:     uintptr(opts.g1Size),
		FieldCount: header.FieldCount,
		Logger:     logger,
		Metrics:    m,
	})
	if err != nil {
		return fmt.Errorf("constructing collector: %w", err)
	}

	head := buildList(collector, int(opts.objects))
	logger.Info("list built", zap.Int("length", int(opts.objects)))

	// Force at least one minor collection: fill G0 with disposable
	// objects while the list stays rooted.
	var headRoot uintptr = head
	collector.PushRoot(&headRoot)
	fillUntilCollected(collector)
	collector.PopRoot(&headRoot)
	head = headRoot

	logger.Info("forced a G0 collection", zap.Int("cycles", collector.Snapshot().G0Cycles))

	sum := sumList(collector, head)
	logger.Info("list walked after collection", zap.Int64("sum", sum))

	// Exercise the write barrier across generations: append one more
	// node onto the (now promoted) tail via SetField, then force another
	// minor collection so the remembered set has to carry it forward.
	tail := lastNode(collector, head)
	extra := allocConsCell(collector, int64(opts.objects), 0)
	collector.SetField(tail, fieldNext, extra)

	headRoot = head
	collector.PushRoot(&headRoot)
	fillUntilCollected(collector)
	collector.PopRoot(&headRoot)
	head = headRoot

	sum = sumList(collector, head)
	logger.Info("list walked after remembered-set promotion", zap.Int64("sum", sum))

	metricFamilies, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	logger.Debug("gathered metric families", zap.Int("count", len(metricFamilies)))

	return printResult(out, collector, opts.json)
}

// allocConsCell allocates and initializes one cons cell: header with field
// count 2, value in field 0, next in field 1.
func allocConsCell(c *gc.Collector, value int64, next uintptr) uintptr {
	obj := c.Alloc(gc.ObjectSize(2))
	c.SetHeader(obj, header.Encode(consCellTag, 2))
	c.InitField(obj, fieldValue, uintptr(value))
	c.InitField(obj, fieldNext, next)
	return obj
}

func buildList(c *gc.Collector, n int) uintptr {
	var head uintptr
	for i := n - 1; i >= 0; i-- {
		head = allocConsCell(c, int64(i), head)
	}
	return head
}

func sumList(c *gc.Collector, head uintptr) int64 {
	var sum int64
	for node := head; node != 0; node = c.Field(node, fieldNext) {
		sum += int64(c.Field(node, fieldValue))
	}
	return sum
}

func lastNode(c *gc.Collector, head uintptr) uintptr {
	node := head
	for {
		next := c.Field(node, fieldNext)
		if next == 0 {
			return node
		}
		node = next
	}
}

func fillUntilCollected(c *gc.Collector) {
	before := c.Snapshot().G0Cycles
	for i := 0; i < 1_000_000 && c.Snapshot().G0Cycles == before; i++ {
		allocConsCell(c, -1, 0)
	}
}

func printResult(out io.Writer, c *gc.Collector, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(c.Inspect())
	}

	st := c.Snapshot()
	fmt.Fprintf(out, "allocated: %d objects, %d bytes (max %d objects, %d bytes)\n",
		st.TotalAllocatedObjects, st.TotalAllocatedBytes, st.MaxAllocatedObjects, st.MaxAllocatedBytes)
	fmt.Fprintf(out, "barriers:  %d reads, %d writes\n", st.TotalReads, st.TotalWrites)
	fmt.Fprintf(out, "roots:     high water mark %d\n", st.RootsMaxSize)
	fmt.Fprintf(out, "cycles:    %d G0, %d G1\n", st.G0Cycles, st.G1Cycles)
	return nil
}
