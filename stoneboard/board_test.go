package stoneboard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domino14/hexsolve/geometry"
	"github.com/domino14/hexsolve/zobrist"
)

func newTestBoard(w, h int) *Board {
	geo := geometry.NewBoard(w, h)
	zh := &zobrist.Hash{}
	zh.Initialize(geo.NumPoints)
	return New(geo, zh)
}

func TestEdgesAreOwnedOnConstruction(t *testing.T) {
	b := newTestBoard(3, 3)
	require.Equal(t, geometry.Black, b.Color(b.Geo.North))
	require.Equal(t, geometry.Black, b.Color(b.Geo.South))
	require.Equal(t, geometry.White, b.Color(b.Geo.East))
	require.Equal(t, geometry.White, b.Color(b.Geo.West))
}

func TestPlayUndoHashRoundTrip(t *testing.T) {
	b := newTestBoard(4, 4)
	initial := b.Hash()

	p := geometry.PointAt(1, 1, 4)
	require.NoError(t, b.PlaceStone(p, geometry.Black))
	require.NotEqual(t, initial, b.Hash())

	b.RemoveStone(p)
	require.Equal(t, initial, b.Hash())
}

func TestPlaceStoneOnOccupiedCellFails(t *testing.T) {
	b := newTestBoard(3, 3)
	p := geometry.PointAt(0, 0, 3)
	require.NoError(t, b.PlaceStone(p, geometry.White))
	require.Error(t, b.PlaceStone(p, geometry.Black))
}

func TestColorPartitionsAreDisjoint(t *testing.T) {
	b := newTestBoard(5, 5)
	b.PlaceStone(geometry.PointAt(2, 2, 5), geometry.Black)
	b.PlaceStone(geometry.PointAt(2, 3, 5), geometry.White)
	b.PlaceStone(geometry.PointAt(3, 2, 5), geometry.Dead)

	require.False(t, b.Black().Intersects(b.White()))
	require.False(t, b.Black().Intersects(b.Dead()))
	require.False(t, b.White().Intersects(b.Dead()))

	// union of black/white/dead/empty covers every point, including edges.
	all := geometry.Or(geometry.Or(b.Black(), b.White()), geometry.Or(b.Dead(), b.Empty()))
	require.True(t, all.Equal(b.Geo.AllPoints()))
}

func TestCloneIsIndependent(t *testing.T) {
	b := newTestBoard(3, 3)
	c := b.Clone()
	require.NoError(t, b.PlaceStone(geometry.PointAt(1, 1, 3), geometry.Black))
	require.True(t, c.IsEmpty(geometry.PointAt(1, 1, 3)))
	require.NotEqual(t, b.Hash(), c.Hash())
}
