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

func newTestHexBoard(w, h int, toPlay geometry.Color) *hexboard.Board {
	geo := geometry.NewBoard(w, h)
	zh := &zobrist.Hash{}
	zh.Initialize(geo.NumPoints)
	table := pattern.DefaultTable()
	if w == 1 || h == 1 {
		// DefaultTable's first-ring patterns assume a cell has up to six
		// distinct neighbor directions; on a 1x1 board every direction
		// collapses onto an edge sentinel, which would spuriously
		// match the all-occupied Dead pattern. Graph-theoretic rules
		// alone still behave correctly there.
		table = pattern.NewTable(nil)
	}
	return hexboard.New(geo, zh, table, toPlay, hexboard.DefaultConfig())
}

func newTestSolver() *Solver {
	tt := ttable.New(0.0001, zerolog.Nop())
	return New(tt, nil, DefaultConfig())
}

func TestSolveOneByOneBoardIsImmediateWinForMover(t *testing.T) {
	hb := newTestHexBoard(1, 1, geometry.Black)
	s := newTestSolver()
	stats, err := s.Solve(context.Background(), hb)
	require.NoError(t, err)
	require.Equal(t, ttable.Win, stats.Result)
}

func TestSolveOneByTwoBoardResolvesWinOrLossNotUnknown(t *testing.T) {
	hb := newTestHexBoard(2, 1, geometry.Black)
	s := newTestSolver()
	stats, err := s.Solve(context.Background(), hb)
	require.NoError(t, err)
	require.NotEqual(t, ttable.Unknown, stats.Result)
}

func TestSolveRespectsCanceledContext(t *testing.T) {
	hb := newTestHexBoard(5, 5, geometry.Black)
	s := newTestSolver()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Solve(ctx, hb)
	require.Error(t, err)
}

func TestSolveRepeatedCallsHitTranspositionTable(t *testing.T) {
	hb := newTestHexBoard(3, 2, geometry.Black)
	tt := ttable.New(0.0001, zerolog.Nop())
	s := New(tt, nil, DefaultConfig())

	_, err := s.Solve(context.Background(), hb)
	require.NoError(t, err)

	stats2, err := s.Solve(context.Background(), hb)
	require.NoError(t, err)
	require.Greater(t, stats2.TTHits, 0)
}

func TestSolveWithMaxDepthZeroOnTinyBoardStillResolves(t *testing.T) {
	hb := newTestHexBoard(2, 2, geometry.Black)
	tt := ttable.New(0.0001, zerolog.Nop())
	cfg := DefaultConfig()
	cfg.ShrinkProofs = true
	s := New(tt, nil, cfg)

	stats, err := s.Solve(context.Background(), hb)
	require.NoError(t, err)
	require.NotEqual(t, ttable.Unknown, stats.Result)
	require.NotNil(t, stats.Proof)
}

func TestSolveWithMaxDepthOneCanReturnUnknown(t *testing.T) {
	hb := newTestHexBoard(4, 4, geometry.Black)
	tt := ttable.New(0.0001, zerolog.Nop())
	cfg := DefaultConfig()
	cfg.MaxDepth = 1
	s := New(tt, nil, cfg)

	stats, err := s.Solve(context.Background(), hb)
	require.NoError(t, err)
	require.Equal(t, ttable.Unknown, stats.Result)
}

// TestMustplayProbeAgreesWithPlainOrdering is spec.md §4.6: the
// ORDER_WITH_MUSTPLAY probe changes move order and can shortcut or
// shrink the candidate list, but it must never change the final
// WIN/LOSS verdict.
func TestMustplayProbeAgreesWithPlainOrdering(t *testing.T) {
	hbProbed := newTestHexBoard(3, 3, geometry.Black)
	tt1 := ttable.New(0.0001, zerolog.Nop())
	withProbe := New(tt1, nil, DefaultConfig())
	statsProbed, err := withProbe.Solve(context.Background(), hbProbed)
	require.NoError(t, err)

	hbPlain := newTestHexBoard(3, 3, geometry.Black)
	tt2 := ttable.New(0.0001, zerolog.Nop())
	cfg := DefaultConfig()
	cfg.Ordering = 0
	plain := New(tt2, nil, cfg)
	statsPlain, err := plain.Solve(context.Background(), hbPlain)
	require.NoError(t, err)

	require.Equal(t, statsPlain.Result, statsProbed.Result)
}

// TestMustplayProbeProofStillVerifies confirms a Win proof produced
// through the mustplay probe's shortcut/shrink path still reconstructs
// a genuine connection once every other cell is filled with the
// loser's color.
func TestMustplayProbeProofStillVerifies(t *testing.T) {
	hb := newTestHexBoard(3, 2, geometry.Black)
	tt := ttable.New(0.0001, zerolog.Nop())
	s := New(tt, nil, DefaultConfig())

	stats, err := s.Solve(context.Background(), hb)
	require.NoError(t, err)
	require.Equal(t, ttable.Win, stats.Result)
	verifyWinProof(t, hb, hb.ToPlay, stats.Proof)
}
