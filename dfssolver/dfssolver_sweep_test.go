package dfssolver

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/domino14/hexsolve/geometry"
	"github.com/domino14/hexsolve/hexboard"
	"github.com/domino14/hexsolve/pattern"
	"github.com/domino14/hexsolve/ttable"
	"github.com/domino14/hexsolve/zobrist"
)

// newSixBySevenBoard builds an empty 6x7 board (6 columns a-f, 7 rows
// 1-7) with find_permanently_inferior disabled, matching the param the
// canonical end-to-end scenarios below are specified under.
func newSixBySevenBoard(toPlay geometry.Color) *hexboard.Board {
	geo := geometry.NewBoard(6, 7)
	zh := &zobrist.Hash{}
	zh.Initialize(geo.NumPoints)
	cfg := hexboard.DefaultConfig()
	cfg.ICE.FindPermanentlyInferior = false
	return hexboard.New(geo, zh, pattern.DefaultTable(), toPlay, cfg)
}

func playCoord(t *testing.T, hb *hexboard.Board, coord string, color geometry.Color) {
	t.Helper()
	row, col, err := geometry.ParseCoord(coord)
	require.NoError(t, err)
	p := geometry.PointAt(row, col, hb.Geo.Width)
	require.NoError(t, hb.PlayMove(p, color))
}

// TestSixBySevenCanonicalSweep is the end-to-end scenario table of
// spec.md §8: on an empty 6x7 board, after Black plays the given move,
// White (second player, to move) wins every time.
func TestSixBySevenCanonicalSweep(t *testing.T) {
	if testing.Short() {
		t.Skip("full 6x7 solve is slow; skipped under -short")
	}

	scenarios := []string{"a1", "d4", "a7", "f1", "c3", "e5"}
	for _, move := range scenarios {
		move := move
		t.Run(move, func(t *testing.T) {
			hb := newSixBySevenBoard(geometry.Black)
			playCoord(t, hb, move, geometry.Black)
			require.Equal(t, geometry.White, hb.ToPlay)

			tt := ttable.New(0.0001, zerolog.Nop())
			s := New(tt, nil, DefaultConfig())
			stats, err := s.Solve(context.Background(), hb)
			require.NoError(t, err)
			require.Equal(t, ttable.Win, stats.Result, "white should win after black plays %s", move)
		})
	}
}

// verifyWinProof is spec.md §8 invariant #4: filling every cell outside
// a winning proof with the loser's color must still leave the winner's
// stones connecting its two edges.
func verifyWinProof(t *testing.T, hb *hexboard.Board, winner geometry.Color, proof geometry.Bitset) {
	t.Helper()
	loser := winner.Opposite()
	scratch := hb.Stone.Clone()

	proof.ForEach(func(p geometry.Point) {
		if scratch.IsEmpty(p) {
			require.NoError(t, scratch.PlaceStone(p, winner))
		}
	})
	scratch.Empty().ForEach(func(p geometry.Point) {
		require.NoError(t, scratch.PlaceStone(p, loser))
	})

	require.True(t, stonesConnectEdges(hb.Geo, scratch, winner),
		"winner %v does not connect its edges after filling outside the proof", winner)
}

// TestWinProofVerifies is spec.md §8 invariant #4.
func TestWinProofVerifies(t *testing.T) {
	hb := newTestHexBoard(3, 3, geometry.Black)
	tt := ttable.New(0.0001, zerolog.Nop())
	s := New(tt, nil, DefaultConfig())

	stats, err := s.Solve(context.Background(), hb)
	require.NoError(t, err)
	require.Equal(t, ttable.Win, stats.Result)

	verifyWinProof(t, hb, hb.ToPlay, stats.Proof)
}

// TestProofShrinkingIsMonotoneAndStillValid is spec.md §8 invariant #5:
// a shrunk proof is a subset of the unshrunk one and still verifies.
func TestProofShrinkingIsMonotoneAndStillValid(t *testing.T) {
	hbFull := newTestHexBoard(3, 3, geometry.Black)
	ttFull := ttable.New(0.0001, zerolog.Nop())
	cfgFull := DefaultConfig()
	statsFull, err := New(ttFull, nil, cfgFull).Solve(context.Background(), hbFull)
	require.NoError(t, err)
	require.Equal(t, ttable.Win, statsFull.Result)

	hbShrunk := newTestHexBoard(3, 3, geometry.Black)
	ttShrunk := ttable.New(0.0001, zerolog.Nop())
	cfgShrunk := DefaultConfig()
	cfgShrunk.ShrinkProofs = true
	statsShrunk, err := New(ttShrunk, nil, cfgShrunk).Solve(context.Background(), hbShrunk)
	require.NoError(t, err)
	require.Equal(t, ttable.Win, statsShrunk.Result)

	require.True(t, statsShrunk.Proof.IsSubsetOf(statsFull.Proof))
	verifyWinProof(t, hbShrunk, hbShrunk.ToPlay, statsShrunk.Proof)
}

// TestTranspositionTableHitsAreSound is spec.md §8 invariant #6: a
// position re-solved through a warm transposition table returns the
// same result with a proof no larger than what was stored for it.
func TestTranspositionTableHitsAreSound(t *testing.T) {
	hb := newTestHexBoard(3, 2, geometry.Black)
	tt := ttable.New(0.0001, zerolog.Nop())
	s := New(tt, nil, DefaultConfig())

	first, err := s.Solve(context.Background(), hb)
	require.NoError(t, err)

	second, err := s.Solve(context.Background(), hb)
	require.NoError(t, err)

	require.Greater(t, second.TTHits, 0)
	require.Equal(t, first.Result, second.Result)
	require.True(t, second.Proof.IsSubsetOf(first.Proof))
}
