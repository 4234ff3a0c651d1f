package ordering

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domino14/hexsolve/geometry"
	"github.com/domino14/hexsolve/groups"
	"github.com/domino14/hexsolve/stoneboard"
	"github.com/domino14/hexsolve/zobrist"
)

func newTestBoard(w, h int) *stoneboard.Board {
	geo := geometry.NewBoard(w, h)
	zh := &zobrist.Hash{}
	zh.Initialize(geo.NumPoints)
	return stoneboard.New(geo, zh)
}

func TestOrderWithMustplayPutsMustplayCellsFirst(t *testing.T) {
	b := newTestBoard(3, 3)
	g := groups.Compute(b)
	all := b.Empty().Points()

	priority := all[len(all)-1]
	mustplayScore := map[geometry.Point]int{priority: 1}

	ordered := Order(b, g, geometry.Black, mustplayScore, all, OrderWithMustplay)
	require.Equal(t, priority, ordered[0])
}

func TestOrderIsDeterministicAcrossCalls(t *testing.T) {
	b := newTestBoard(4, 4)
	g := groups.Compute(b)
	all := b.Empty().Points()

	first := Order(b, g, geometry.Black, nil, all, OrderFromCenter|OrderWithResist)
	second := Order(b, g, geometry.Black, nil, all, OrderFromCenter|OrderWithResist)
	require.Equal(t, first, second)
}

func TestResistanceOnEmptyBoardFavorsCentralCells(t *testing.T) {
	b := newTestBoard(5, 5)
	g := groups.Compute(b)
	r := Resistance(b, g, geometry.Black)
	require.NotEmpty(t, r)

	center := geometry.PointAt(2, 2, 5)
	corner := geometry.PointAt(0, 0, 5)
	require.Greater(t, r[center], 0.0)
	require.Greater(t, r[corner], 0.0)
	require.Greater(t, r[center], r[corner])
}

func TestOrderWithNoFlagsPreservesStableSortByIndex(t *testing.T) {
	b := newTestBoard(3, 3)
	g := groups.Compute(b)
	all := b.Empty().Points()

	ordered := Order(b, g, geometry.Black, nil, all, 0)
	for i := 1; i < len(ordered); i++ {
		require.Less(t, ordered[i-1], ordered[i])
	}
}
