package header_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avrong/stella-gc-go/gc/header"
)

func TestEncodeRoundTrips(t *testing.T) {
	for _, tc := range []struct {
		tag   uint8
		count int
	}{
		{0, 0},
		{1, 1},
		{255, 255},
		{7, 12},
	} {
		h := header.Encode(tc.tag, tc.count)
		require.Equal(t, tc.tag, header.Tag(h))
		require.Equal(t, tc.count, header.FieldCount(h))
	}
}
