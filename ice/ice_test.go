package ice

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domino14/hexsolve/geometry"
	"github.com/domino14/hexsolve/pattern"
	"github.com/domino14/hexsolve/stoneboard"
	"github.com/domino14/hexsolve/zobrist"
)

func newTestBoard(w, h int) *stoneboard.Board {
	geo := geometry.NewBoard(w, h)
	zh := &zobrist.Hash{}
	zh.Initialize(geo.NumPoints)
	return stoneboard.New(geo, zh)
}

func TestComputeFillinFillsFullyEncircledCellAsDead(t *testing.T) {
	// DefaultTable's Dead pattern (every ring slot occupied, by anyone)
	// is checked before the Captured patterns in each fillin round, so a
	// cell ringed by one color's stones is filled as dead.
	b := newTestBoard(5, 5)
	center := geometry.PointAt(2, 2, 5)
	for _, n := range b.Geo.Neighbors(center) {
		require.NoError(t, b.PlaceStone(n, geometry.Black))
	}

	eng := NewEngine(pattern.DefaultTable(), DefaultConfig())
	ic := eng.ComputeFillin(b, geometry.Black)

	require.True(t, ic.Dead.Test(center))
	require.Equal(t, geometry.Dead, b.Color(center))
}

func TestComputeFillinNeverOverwritesExistingStones(t *testing.T) {
	b := newTestBoard(4, 4)
	p := geometry.PointAt(0, 0, 4)
	require.NoError(t, b.PlaceStone(p, geometry.White))

	eng := NewEngine(pattern.DefaultTable(), DefaultConfig())
	eng.ComputeFillin(b, geometry.Black)

	require.Equal(t, geometry.White, b.Color(p))
}

func TestComputeFillinIsIdempotentOnAlreadySettledBoard(t *testing.T) {
	b := newTestBoard(5, 5)
	center := geometry.PointAt(2, 2, 5)
	for _, n := range b.Geo.Neighbors(center) {
		require.NoError(t, b.PlaceStone(n, geometry.Black))
	}

	eng := NewEngine(pattern.DefaultTable(), DefaultConfig())
	first := eng.ComputeFillin(b, geometry.Black)
	second := eng.ComputeFillin(b, geometry.Black)

	require.True(t, first.Captured[geometry.Black].Equal(second.Captured[geometry.Black]))
}

func TestEmptyPatternTableDegradesToGraphRulesOnly(t *testing.T) {
	b := newTestBoard(3, 3)
	eng := NewEngine(pattern.NewTable(nil), DefaultConfig())
	require.NotPanics(t, func() {
		eng.ComputeFillin(b, geometry.Black)
	})
}

func TestInferiorCellsMergeUnionsAllFields(t *testing.T) {
	numPoints := 10
	a := newInferiorCells(numPoints)
	b := newInferiorCells(numPoints)

	deadPoint := geometry.Point(3)
	b.Dead.Set(deadPoint)
	b.Vulnerable[geometry.Point(1)] = []VulnerableWitness{{Killer: geometry.Point(2), Carrier: geometry.NewBitset(numPoints)}}

	a.Merge(b)

	require.True(t, a.Dead.Test(deadPoint))
	require.Len(t, a.Vulnerable[geometry.Point(1)], 1)
}

func TestComputeFillinSecondPassFindsNothingFurther(t *testing.T) {
	b := newTestBoard(6, 6)
	require.NoError(t, b.PlaceStone(geometry.PointAt(3, 3, 6), geometry.Black))
	require.NoError(t, b.PlaceStone(geometry.PointAt(3, 2, 6), geometry.White))
	require.NoError(t, b.PlaceStone(geometry.PointAt(2, 3, 6), geometry.Black))

	eng := NewEngine(pattern.DefaultTable(), DefaultConfig())
	eng.ComputeFillin(b, geometry.White)
	settled := b.Clone()

	again := eng.ComputeFillin(b, geometry.White)
	require.True(t, again.Dead.None(), "second pass found further dead cells")
	require.True(t, again.Captured[geometry.Black].None(), "second pass found further black-captured cells")
	require.True(t, again.Captured[geometry.White].None(), "second pass found further white-captured cells")
	require.True(t, b.Black().Equal(settled.Black()))
	require.True(t, b.White().Equal(settled.White()))
	require.True(t, b.Dead().Equal(settled.Dead()))
}

func TestInferiorCellSetsNeverOverlapAndStayOnEmptyCells(t *testing.T) {
	b := newTestBoard(6, 6)
	require.NoError(t, b.PlaceStone(geometry.PointAt(3, 3, 6), geometry.Black))
	require.NoError(t, b.PlaceStone(geometry.PointAt(3, 2, 6), geometry.White))
	require.NoError(t, b.PlaceStone(geometry.PointAt(2, 3, 6), geometry.Black))
	require.NoError(t, b.PlaceStone(geometry.PointAt(1, 1, 6), geometry.White))

	eng := NewEngine(pattern.DefaultTable(), DefaultConfig())
	ic := eng.ComputeFillin(b, geometry.Black)

	require.True(t, geometry.And(ic.Dead, ic.Captured[geometry.Black]).None())
	require.True(t, geometry.And(ic.Dead, ic.Captured[geometry.White]).None())
	require.True(t, geometry.And(ic.Captured[geometry.Black], ic.Captured[geometry.White]).None())

	for p := range ic.Vulnerable {
		require.True(t, b.IsEmpty(p), "vulnerable cell %v is not empty", p)
	}
	for p := range ic.Reversible {
		require.True(t, b.IsEmpty(p), "reversible cell %v is not empty", p)
	}
	for p := range ic.Dominated {
		require.True(t, b.IsEmpty(p), "dominated cell %v is not empty", p)
	}
}

func TestGraphDeadRegionBetweenTwoBlackWalls(t *testing.T) {
	// A 1-wide corridor of empty cells flanked on both long sides by
	// black stones cannot carry a white connection between East/West,
	// but it still can for black (vertically), so it is not globally
	// dead under this engine's conservative rule — this test only
	// pins down that the rule never misclassifies a genuinely useful
	// cell (one that is reachable for its own color) as dead.
	b := newTestBoard(3, 3)
	center := geometry.PointAt(1, 1, 3)
	for r := 0; r < 3; r++ {
		require.NoError(t, b.PlaceStone(geometry.PointAt(r, 0, 3), geometry.Black))
		require.NoError(t, b.PlaceStone(geometry.PointAt(r, 2, 3), geometry.Black))
	}

	eng := NewEngine(pattern.NewTable(nil), DefaultConfig())
	ic := eng.ComputeFillin(b, geometry.Black)
	require.False(t, ic.Dead.Test(center))
}
