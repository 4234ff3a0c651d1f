package vc

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

func TestEmptyBoardHasBridgeConnectionBetweenBlackEdges(t *testing.T) {
	b := newTestBoard(1, 1)
	g := groups.Compute(b)
	s := Build(b, g, geometry.Black)

	// On a 1x1 board North and South are both adjacent to the single
	// cell, and to each other via it, so a semi should exist.
	semis := s.WinningSemis(g, b.Geo)
	require.NotEmpty(t, semis)
}

func TestMustplayFallsBackToAllEmptyWhenNoConnectionFound(t *testing.T) {
	b := newTestBoard(9, 9)
	g := groups.Compute(b)
	s := &Set{color: geometry.Black, byPair: map[[2]geometry.Point][]Connection{}}

	mp := s.Mustplay(g, b.Geo, b)
	require.Equal(t, b.Empty().Count(), mp.Count())
}

func TestFullyConnectedWhenEdgesAlreadyJoinedByStones(t *testing.T) {
	b := newTestBoard(2, 1)
	require.NoError(t, b.PlaceStone(geometry.PointAt(0, 0, 2), geometry.Black))
	require.NoError(t, b.PlaceStone(geometry.PointAt(0, 1, 2), geometry.Black))
	g := groups.Compute(b)
	s := Build(b, g, geometry.Black)

	require.True(t, s.FullyConnected(g, b.Geo))
}

func TestAndRuleComposesTwoBridgesAcrossAMiddleGroup(t *testing.T) {
	// 1 wide, 3 tall: North shares cell (0,0) with the middle stone and
	// South shares (2,0) with it, so only AND composition joins the edges.
	b := newTestBoard(1, 3)
	mid := geometry.PointAt(1, 0, 1)
	require.NoError(t, b.PlaceStone(mid, geometry.Black))
	g := groups.Compute(b)

	s := Build(b, g, geometry.Black)
	semis := s.WinningSemis(g, b.Geo)
	require.NotEmpty(t, semis)
}
