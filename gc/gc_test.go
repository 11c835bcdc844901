package gc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avrong/stella-gc-go/gc/header"
)

// oomPanic is what the test ExitFunc raises instead of calling os.Exit, so
// fatal OOM can be observed without killing the test binary.
type oomPanic struct{ code int }

func newTestCollector(t *testing.T, g0Size, g1Size uintptr) *Collector {
	t.Helper()
	c, err := NewCollector(Config{
		G0Size:     g0Size,
		G1Size:     g1Size,
		FieldCount: header.FieldCount,
		ExitFunc:   func(code int) { panic(oomPanic{code}) },
	})
	require.NoError(t, err)
	return c
}

func sizeFor(fieldCount int) uintptr {
	return ptrSize + uintptr(fieldCount)*ptrSize
}

func allocObj(c *Collector, tag uint8, fieldCount int) uintptr {
	addr := c.Alloc(sizeFor(fieldCount))
	setHeaderOf(addr, header.Encode(tag, fieldCount))
	for i := 0; i < fieldCount; i++ {
		setFieldOf(addr, i, 0)
	}
	return addr
}

// Single allocation, no collection.
func TestAllocSingleObject(t *testing.T) {
	c := newTestCollector(t, DefaultG0Size, DefaultG1Size)

	obj := allocObj(c, 1, 1)
	require.Equal(t, obj, wrapperOf(obj)+ptrSize) // wrapper_addr + ptrSize == object_addr

	st := c.Snapshot()
	require.EqualValues(t, 1, st.TotalAllocatedObjects)
	require.EqualValues(t, sizeFor(1), st.TotalAllocatedBytes)
}

// Minor collection moves a rooted live object.
func TestMinorCollectionMovesLiveObject(t *testing.T) {
	c := newTestCollector(t, 256, 4096)

	obj := allocObj(c, 5, 1)
	root := obj
	c.PushRoot(&root)
	defer c.PopRoot(&root)

	before := root
	cyclesBefore := c.g0.Cycles
	for i := 0; i < 10000 && c.g0.Cycles == cyclesBefore; i++ {
		allocObj(c, 9, 0)
	}
	require.Greater(t, c.g0.Cycles, cyclesBefore, "expected a G0 collection to have run")

	require.NotEqual(t, before, root, "root slot should now point at the promoted copy")
	require.Equal(t, 1, header.FieldCount(headerOf(root)))
	require.Equal(t, uint8(5), header.Tag(headerOf(root)))
	require.Equal(t, uintptr(0), fieldOf(root, 0))
	require.Equal(t, c.g0.FromSpace.Start(), c.g0.FromSpace.Next())
}

// Forwarding during chase links a -> b correctly.
func TestChaseForwardsLinkedObjects(t *testing.T) {
	c := newTestCollector(t, 256, 4096)

	b := allocObj(c, 2, 0)
	a := allocObj(c, 1, 1)
	setFieldOf(a, 0, b)

	root := a
	c.PushRoot(&root)
	defer c.PopRoot(&root)

	aOld, bOld := a, b
	c.collectGen0()

	aNew := root
	require.NotEqual(t, aOld, aNew)
	bNew := fieldOf(aNew, 0)
	require.NotEqual(t, bOld, bNew)

	require.Equal(t, wrapperOf(aNew), forwardedSlot(wrapperOf(aOld)))
	require.Equal(t, wrapperOf(bNew), forwardedSlot(wrapperOf(bOld)))
	require.Equal(t, uint8(2), header.Tag(headerOf(bNew)))
}

// The remembered set captures an inter-generational write.
func TestRememberedSetCapturesInterGenerationalWrite(t *testing.T) {
	c := newTestCollector(t, 256, 4096)

	x := allocObj(c, 3, 1)
	root := x
	c.PushRoot(&root)

	cyclesBefore := c.g0.Cycles
	for i := 0; i < 10000 && c.g0.Cycles == cyclesBefore; i++ {
		allocObj(c, 9, 0)
	}
	require.Greater(t, c.g0.Cycles, cyclesBefore)
	xPromoted := root
	require.True(t, c.g1.FromSpace.Contains(xPromoted))

	c.PopRoot(&root) // x is now reachable only via the remembered set

	y := allocObj(c, 4, 0)
	c.SetField(xPromoted, 0, y)
	require.Equal(t, 1, c.changed.len())

	cyclesBefore = c.g0.Cycles
	for i := 0; i < 10000 && c.g0.Cycles == cyclesBefore; i++ {
		allocObj(c, 9, 0)
	}
	require.Greater(t, c.g0.Cycles, cyclesBefore)

	yNew := fieldOf(xPromoted, 0)
	require.NotEqual(t, y, yNew)
	require.True(t, c.g1.FromSpace.Contains(yNew))
	require.Equal(t, uint8(4), header.Tag(headerOf(yNew)))
	require.Equal(t, 0, c.changed.len())
}

// OOM is fatal: roots retained across collections, nothing reclaimable,
// G1 eventually fills and exits with OOMExitCode.
func TestOutOfMemoryIsFatal(t *testing.T) {
	c := newTestCollector(t, 64, 128)

	var roots []uintptr
	var code int
	var sawOOM bool

	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			p, ok := r.(oomPanic)
			require.True(t, ok, "unexpected panic: %v", r)
			code = p.code
			sawOOM = true
		}()
		for i := 0; i < 100000; i++ {
			obj := allocObj(c, 1, 2)
			roots = append(roots, obj)
			c.PushRoot(&roots[len(roots)-1])
		}
	}()

	require.True(t, sawOOM, "expected allocation to eventually panic via ExitFunc")
	require.Equal(t, OOMExitCode, code)
}

func TestRootStackHighWaterMark(t *testing.T) {
	c := newTestCollector(t, DefaultG0Size, DefaultG1Size)

	var slots [512]uintptr
	for i := range slots {
		slots[i] = uintptr(i + 1)
		c.PushRoot(&slots[i])
	}
	for i := len(slots) - 1; i >= 0; i-- {
		c.PopRoot(&slots[i])
	}

	require.Equal(t, 512, c.Snapshot().RootsMaxSize)
	require.Equal(t, 0, c.roots.len())
}

func TestForwardIsIdempotent(t *testing.T) {
	c := newTestCollector(t, 256, 4096)

	obj := allocObj(c, 1, 0)
	root := obj
	c.PushRoot(&root)
	defer c.PopRoot(&root)

	gen := c.g0
	gen.scan = gen.ToSpace.Next()

	first := c.forward(gen, obj)
	second := c.forward(gen, obj)
	require.Equal(t, first, second)
}

func TestWrapperSizeLaw(t *testing.T) {
	for _, fc := range []int{0, 1, 3, 10} {
		require.Equal(t, ptrSize*2+uintptr(fc)*ptrSize, wrapperSize(fc))
	}
}

func TestReadBarrierOnlyCountsReads(t *testing.T) {
	c := newTestCollector(t, DefaultG0Size, DefaultG1Size)
	obj := allocObj(c, 1, 1)

	v := c.Field(obj, 0)
	require.Equal(t, uintptr(0), v)
	require.EqualValues(t, 1, c.Snapshot().TotalReads)
	require.EqualValues(t, 0, c.Snapshot().TotalWrites)
}

func TestWriteBarrierAccounting(t *testing.T) {
	c := newTestCollector(t, DefaultG0Size, DefaultG1Size)
	obj := allocObj(c, 1, 1)
	other := allocObj(c, 1, 0)

	c.SetField(obj, 0, other)
	require.EqualValues(t, 1, c.Snapshot().TotalWrites)
	require.Equal(t, 1, c.changed.len())
	require.Equal(t, other, fieldOf(obj, 0))
}
