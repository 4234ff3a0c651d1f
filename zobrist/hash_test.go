package zobrist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domino14/hexsolve/geometry"
)

func TestToggleRoundTrip(t *testing.T) {
	h := &Hash{}
	h.Initialize(9)

	key := uint64(0)
	colors := map[geometry.Point]geometry.Color{}

	key = h.TogglePoint(key, 3, geometry.Black)
	colors[3] = geometry.Black
	key = h.TogglePoint(key, 5, geometry.White)
	colors[5] = geometry.White

	full := h.Full(func(p geometry.Point) geometry.Color {
		if c, ok := colors[p]; ok {
			return c
		}
		return geometry.Empty
	}, geometry.White)

	require.Equal(t, full, key)

	// Un-toggling returns the hash to its prior value (Zobrist round trip).
	key = h.TogglePoint(key, 5, geometry.White)
	require.NotEqual(t, full, key)
	key = h.TogglePoint(key, 3, geometry.Black)
	require.NotEqual(t, full, key)
	require.Equal(t, uint64(0), key)
}

func TestToggleToMoveIsInvolutive(t *testing.T) {
	h := &Hash{}
	h.Initialize(4)

	key := uint64(12345)
	require.Equal(t, key, h.ToggleToMove(h.ToggleToMove(key)))
}

func TestDistinctCellsDistinctContributions(t *testing.T) {
	h := &Hash{}
	h.Initialize(4)

	k1 := h.TogglePoint(0, 0, geometry.Black)
	k2 := h.TogglePoint(0, 1, geometry.Black)
	require.NotEqual(t, k1, k2)
}
