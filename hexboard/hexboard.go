// Package hexboard composes stoneboard.Board, groups.Groups,
// ice.InferiorCells, and per-color vc.Set into the single HexBoard of
// spec.md §3/§4.2: the object the solver actually plays moves against,
// with an undo history stack so DFS can backtrack without recomputing
// from scratch.
//
// Grounded on the teacher's endgame/alphabeta.Solver + GameNode pairing
// (a game-tree node type wrapping board state, paired with a solver
// that pushes/pops moves) and on original_source/src/hex/HexBoard.hpp's
// own PlayMove/UndoMove/ComputeAll history-stack shape.
package hexboard

import (
	"fmt"

	"github.com/domino14/hexsolve/geometry"
	"github.com/domino14/hexsolve/groups"
	"github.com/domino14/hexsolve/ice"
	"github.com/domino14/hexsolve/pattern"
	"github.com/domino14/hexsolve/stoneboard"
	"github.com/domino14/hexsolve/vc"
	"github.com/domino14/hexsolve/zobrist"
)

// Config bundles the ICE and VC toggles a HexBoard computes with —
// the board-level subset of the param_solver_ice / param_solver surface
// of spec.md §6.
type Config struct {
	ICE           ice.Config
	UseVC         bool
	BackupIceInfo bool
}

func DefaultConfig() Config {
	return Config{ICE: ice.DefaultConfig(), UseVC: true}
}

// historyFrame snapshots the state PlayMove is about to mutate, so
// UndoMove can restore the stones and side to move; UndoMove then
// recomputes ICE/VC from the restored stones, and the saved VC sets are
// not read back — the same "push before mutate, pop to restore" shape as
// the teacher's GameNode history in endgame/alphabeta.
type historyFrame struct {
	stoneSnapshot *stoneboard.Board
	inferior      *ice.InferiorCells
	vcBlack       *vc.Set
	vcWhite       *vc.Set
	move          geometry.Point
	moveColor     geometry.Color
	toPlayAfter   geometry.Color
}

// Board is the composed playing surface: one StoneBoard plus the
// derived views recomputed from it on every ComputeAll.
type Board struct {
	Geo   *geometry.Board
	Stone *stoneboard.Board
	Groups *groups.Groups
	IC    *ice.InferiorCells
	VC    map[geometry.Color]*vc.Set

	ToPlay geometry.Color

	cfg    Config
	engine *ice.Engine
	history []*historyFrame
}

// New builds an empty HexBoard and runs the first ComputeAll.
func New(geo *geometry.Board, zh *zobrist.Hash, table *pattern.Table, toPlay geometry.Color, cfg Config) *Board {
	hb := &Board{
		Geo:    geo,
		Stone:  stoneboard.New(geo, zh),
		ToPlay: toPlay,
		cfg:    cfg,
		engine: ice.NewEngine(table, cfg.ICE),
		VC:     make(map[geometry.Color]*vc.Set),
	}
	hb.ComputeAll()
	return hb
}

// ComputeAll recomputes Groups, runs ICE fillin, and (if enabled)
// rebuilds both colors' VC sets — spec.md §3's "Groups are recomputed
// from StoneBoard when fillin changes" plus the natural extension to
// VC sets, which are equally derived data.
func (hb *Board) ComputeAll() {
	hb.Groups = groups.Compute(hb.Stone)
	hb.IC = hb.engine.ComputeFillin(hb.Stone, hb.ToPlay)
	hb.Groups = groups.Compute(hb.Stone)
	if hb.cfg.UseVC {
		hb.VC[geometry.Black] = vc.Build(hb.Stone, hb.Groups, geometry.Black)
		hb.VC[geometry.White] = vc.Build(hb.Stone, hb.Groups, geometry.White)
	}
}

// PlayMove places a stone for color at p, recomputes all derived
// state, and flips ToPlay — the fundamental DFS tree-descent step.
func (hb *Board) PlayMove(p geometry.Point, color geometry.Color) error {
	if !hb.Stone.IsEmpty(p) {
		return fmt.Errorf("hexboard: cannot play on occupied cell %v", p)
	}
	frame := &historyFrame{
		stoneSnapshot: hb.Stone.Clone(),
		inferior:      hb.IC,
		vcBlack:       hb.VC[geometry.Black],
		vcWhite:       hb.VC[geometry.White],
		move:          p,
		moveColor:     color,
		toPlayAfter:   hb.ToPlay,
	}
	hb.history = append(hb.history, frame)

	if err := hb.Stone.PlaceStone(p, color); err != nil {
		hb.history = hb.history[:len(hb.history)-1]
		return err
	}
	hb.Stone.ToggleToMove()
	hb.ToPlay = color.Opposite()
	hb.ComputeAll()
	return nil
}

// UndoMove restores the position before the last PlayMove. If
// BackupIceInfo is set, the popped frame's inferior-cell knowledge is
// merged into the recomputed one rather than discarded, since it was
// computed for this same position. VC sets are only recomputed.
func (hb *Board) UndoMove() error {
	n := len(hb.history)
	if n == 0 {
		return fmt.Errorf("hexboard: no move to undo")
	}
	frame := hb.history[n-1]
	hb.history = hb.history[:n-1]

	hb.Stone.CopyFrom(frame.stoneSnapshot)
	hb.ToPlay = frame.toPlayAfter
	hb.ComputeAll()

	if hb.cfg.BackupIceInfo {
		hb.IC.Merge(frame.inferior)
	}
	return nil
}

// PlayStones places a batch of stones outside normal move play (board
// setup, hypothetical positions for proof shrinking) without touching
// the undo history, then recomputes derived state once.
func (hb *Board) PlayStones(stones map[geometry.Point]geometry.Color) error {
	for p, c := range stones {
		if err := hb.Stone.PlaceStone(p, c); err != nil {
			return err
		}
	}
	hb.ComputeAll()
	return nil
}

// AddStones is an alias of PlayStones for the teacher's vocabulary:
// distinguishing "setting up a position" from "playing a move" even
// though the mechanics are identical once history tracking is skipped.
func (hb *Board) AddStones(stones map[geometry.Point]geometry.Color) error {
	return hb.PlayStones(stones)
}

// Clone deep-copies the board including VC/IC state but not undo
// history — used for hypothetical boards (proof shrinking,
// backup-opponent-dead) that never need to be unwound.
func (hb *Board) Clone() *Board {
	clone := &Board{
		Geo:    hb.Geo,
		Stone:  hb.Stone.Clone(),
		ToPlay: hb.ToPlay,
		cfg:    hb.cfg,
		engine: hb.engine,
		VC:     make(map[geometry.Color]*vc.Set),
	}
	clone.ComputeAll()
	return clone
}

// DecompositionBoundary looks for a single empty cell whose removal
// splits the remaining empty region into components that cannot reach
// each other — if hb.ToPlay's opponent captures that cell, the two
// components become independent subgames (spec.md §4.2's decomposition
// hook). It returns ok=false when no such cell exists; dfssolver must
// treat that as "no decomposition available" and solve the position
// whole, never as a sign anything is wrong.
func (hb *Board) DecompositionBoundary() (p geometry.Point, ok bool) {
	empty := hb.Stone.Empty().Points()
	if len(empty) < 3 {
		return geometry.InvalidPoint, false
	}
	for _, candidate := range empty {
		if hb.splitsEmptyRegion(candidate, empty) {
			return candidate, true
		}
	}
	return geometry.InvalidPoint, false
}

func (hb *Board) splitsEmptyRegion(candidate geometry.Point, empty []geometry.Point) bool {
	rest := make(map[geometry.Point]bool, len(empty)-1)
	for _, e := range empty {
		if e != candidate {
			rest[e] = true
		}
	}
	if len(rest) == 0 {
		return false
	}
	var start geometry.Point
	for p := range rest {
		start = p
		break
	}
	visited := map[geometry.Point]bool{start: true}
	queue := []geometry.Point{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, n := range hb.Geo.Neighbors(p) {
			if !rest[n] || visited[n] {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return len(visited) < len(rest)
}
