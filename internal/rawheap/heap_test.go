package rawheap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avrong/stella-gc-go/internal/rawheap"
)

func TestHeapAllocBumpsFrontier(t *testing.T) {
	h, err := rawheap.NewHeap(0, 256)
	require.NoError(t, err)
	defer h.Unmap()

	start := h.Start()
	a, ok := h.Alloc(32)
	require.True(t, ok)
	require.Equal(t, start, a)
	require.Equal(t, uintptr(32), h.Used())

	b, ok := h.Alloc(32)
	require.True(t, ok)
	require.Equal(t, start+32, b)
	require.Equal(t, uintptr(64), h.Used())
}

func TestHeapAllocFailsWhenFull(t *testing.T) {
	h, err := rawheap.NewHeap(0, 64)
	require.NoError(t, err)
	defer h.Unmap()

	_, ok := h.Alloc(64)
	require.True(t, ok)

	_, ok = h.Alloc(1)
	require.False(t, ok)
}

func TestHeapAllocZeroesForwardingAndHeader(t *testing.T) {
	h, err := rawheap.NewHeap(0, 64)
	require.NoError(t, err)
	defer h.Unmap()

	a, ok := h.Alloc(32)
	require.True(t, ok)
	require.Equal(t, uintptr(0), rawheap.ReadUintptr(a))
	require.Equal(t, uintptr(0), rawheap.ReadUintptr(a+rawheap.PtrSize))
}

func TestHeapResetReclaimsWholesale(t *testing.T) {
	h, err := rawheap.NewHeap(0, 64)
	require.NoError(t, err)
	defer h.Unmap()

	_, ok := h.Alloc(64)
	require.True(t, ok)
	require.Equal(t, uintptr(0), h.Free())

	h.Reset()
	require.Equal(t, h.Size(), h.Free())
	require.Equal(t, h.Start(), h.Next())
}

func TestHeapContainsRangeTest(t *testing.T) {
	h, err := rawheap.NewHeap(0, 64)
	require.NoError(t, err)
	defer h.Unmap()

	require.True(t, h.Contains(h.Start()))
	require.True(t, h.Contains(h.Start()+63))
	require.False(t, h.Contains(h.Start()+64))
	require.False(t, h.Contains(0))
}
