// Package dfssolver implements the DFS solver of spec.md §4.4: a
// mustplay-driven, depth-first WIN/LOSS/UNKNOWN search with no
// heuristic evaluation and no parallelism — every node either finds a
// reply that makes the opponent lose, or proves every reply lets the
// opponent win.
//
// Grounded on the teacher's endgame/negamax.Solver.negamax: the
// context.Err() check at function entry, the transposition-table
// lookup/store bracketing the recursive search, and the bestMove/PV
// bookkeeping are all carried over, generalized from a depth-bounded
// scored search to an unbounded (modulo MaxDepth/time budget) boolean
// one, since Hex has no draws and no partial credit.
package dfssolver

import (
	"context"
	"fmt"
	"time"

	"github.com/domino14/hexsolve/geometry"
	"github.com/domino14/hexsolve/hexboard"
	"github.com/domino14/hexsolve/ordering"
	"github.com/domino14/hexsolve/posdb"
	"github.com/domino14/hexsolve/stoneboard"
	"github.com/domino14/hexsolve/ttable"
	"github.com/domino14/hexsolve/vc"
)

// Config is the param_solver surface of spec.md §6 that controls
// dfssolver itself (board setup and ICE parameters live in
// hexboard.Config / ice.Config).
type Config struct {
	MaxDepth          int // 0 = unbounded
	UseDecompositions bool
	ShrinkProofs      bool
	Ordering          ordering.Flags
}

func DefaultConfig() Config {
	return Config{Ordering: ordering.OrderWithMustplay | ordering.OrderWithResist}
}

// BranchStatistics reports what one Solve call did, for diagnostics and
// for the cmd/hexsolve REPL's solve-state output.
type BranchStatistics struct {
	Result       ttable.Result
	BestMove     geometry.Point
	Proof        geometry.Bitset
	NodesVisited int
	TTHits       int
	Elapsed      time.Duration
}

// Solver runs solveState against a hexboard.Board, consulting and
// populating a ttable.Table and, optionally, a persistent posdb.DB.
type Solver struct {
	TT  *ttable.Table
	DB  *posdb.DB // nil disables persistence
	Cfg Config

	nodesVisited int
	ttHits       int
}

func New(tt *ttable.Table, db *posdb.DB, cfg Config) *Solver {
	return &Solver{TT: tt, DB: db, Cfg: cfg}
}

// ErrDepthExceeded names the depth-limit condition. Solve does not
// return it: a branch that MaxDepth cuts off before it resolves yields
// an Unknown result with a nil error. Unknown results are never stored
// in the transposition table, since an Unknown result isn't a fact about
// the position — just a fact about how hard this particular call tried.
var ErrDepthExceeded = fmt.Errorf("dfssolver: depth limit reached")

// Solve resolves hb's current position for hb.ToPlay and returns full
// statistics. ctx governs the time budget; cancel or set a deadline on
// it to bound a solve that would otherwise run to exhaustion.
func (s *Solver) Solve(ctx context.Context, hb *hexboard.Board) (BranchStatistics, error) {
	start := time.Now()
	s.nodesVisited = 0
	s.ttHits = 0

	result, move, proof, err := s.solveState(ctx, hb, 0)
	stats := BranchStatistics{
		Result:       result,
		BestMove:     move,
		Proof:        proof,
		NodesVisited: s.nodesVisited,
		TTHits:       s.ttHits,
		Elapsed:      time.Since(start),
	}
	return stats, err
}

// solveState is the mustplay-driven minimax of spec.md §4.4. Every
// empty cell outside the current mustplay set is provably irrelevant
// (vc.Set guarantees this when it found a connection; when it didn't,
// Mustplay conservatively returns every empty cell instead), so this
// never needs alpha-beta pruning the way a scored search does — a WIN
// reply short-circuits the whole loop immediately.
func (s *Solver) solveState(ctx context.Context, hb *hexboard.Board, depth int) (ttable.Result, geometry.Point, geometry.Bitset, error) {
	if err := ctx.Err(); err != nil {
		return ttable.Unknown, geometry.InvalidPoint, geometry.Bitset{}, err
	}
	s.nodesVisited++

	toPlay := hb.ToPlay
	hash := hb.Stone.Hash()

	if entry, ok := s.TT.Lookup(hash); ok {
		s.ttHits++
		return entry.Result(), entry.BestMove(), entry.Proof(), nil
	}
	if s.DB != nil {
		if entry, ok, err := s.DB.Get(hash); err == nil && ok {
			s.ttHits++
			// posdb sizes a stored proof only to its highest point; rebuild
			// it at this board's capacity so it can be unioned with others.
			proof := geometry.NewBitset(hb.Geo.NumPoints)
			entry.Proof().ForEach(proof.Set)
			return entry.Result(), entry.BestMove(), proof, nil
		}
	}

	if result, proof, decided := immediateResult(hb, toPlay); decided {
		s.record(hash, result, geometry.InvalidPoint, proof)
		return result, geometry.InvalidPoint, proof, nil
	}

	if s.Cfg.MaxDepth > 0 && depth >= s.Cfg.MaxDepth {
		return ttable.Unknown, geometry.InvalidPoint, geometry.Bitset{}, nil
	}

	// Mustplay is the union of the carriers of the opponent's winning
	// semi-connections: any cell outside that set can't matter, because
	// the opponent could still connect through it even if we ignore it.
	// Per spec.md §4.4 step 3, further intersect with the empties minus
	// any cell ICE proved vulnerable-for-toPlay with a still-available
	// killer: such a cell's own value is already subsumed by its killer
	// reply, so toPlay never needs to play it directly.
	vcSet := hb.VC[toPlay.Opposite()]
	mustplay := vcSet.Mustplay(hb.Groups, hb.Geo, hb.Stone)
	for p, witnesses := range hb.IC.Vulnerable {
		for _, w := range witnesses {
			if w.Color == toPlay && hb.Stone.IsEmpty(w.Killer) {
				mustplay.Clear(p)
				break
			}
		}
	}

	var lossProof geometry.Bitset
	lossProof = geometry.NewBitset(hb.Geo.NumPoints)
	sawUnknown := false

	var candidates []geometry.Point
	if s.Cfg.Ordering&ordering.OrderWithMustplay != 0 {
		probe, err := s.mustplayProbe(hb, toPlay, vcSet, mustplay.Points())
		if err != nil {
			return ttable.Unknown, geometry.InvalidPoint, geometry.Bitset{}, err
		}
		if probe.HasShortcut {
			proof := probe.ShortcutProof.Clone()
			proof.Set(probe.ShortcutMove)
			if s.Cfg.ShrinkProofs {
				proof = shrinkWinProof(hb, toPlay, probe.ShortcutMove, proof)
			}
			s.record(hash, ttable.Win, probe.ShortcutMove, proof)
			return ttable.Win, probe.ShortcutMove, proof, nil
		}
		for _, d := range probe.Dropped {
			lossProof.Union(d.Proof)
			lossProof.Set(d.Point)
		}
		candidates = ordering.Order(hb.Stone, hb.Groups, toPlay, probe.Score, probe.Candidates, s.Cfg.Ordering)
	} else {
		candidates = ordering.Order(hb.Stone, hb.Groups, toPlay, nil, mustplay.Points(), s.Cfg.Ordering)
	}

	for _, p := range candidates {
		if err := hb.PlayMove(p, toPlay); err != nil {
			return ttable.Unknown, geometry.InvalidPoint, geometry.Bitset{}, err
		}
		childResult, _, childProof, err := s.solveState(ctx, hb, depth+1)
		undoErr := hb.UndoMove()
		if err != nil {
			return ttable.Unknown, geometry.InvalidPoint, geometry.Bitset{}, err
		}
		if undoErr != nil {
			return ttable.Unknown, geometry.InvalidPoint, geometry.Bitset{}, undoErr
		}

		switch childResult {
		case ttable.Loss:
			// Opponent loses after we play p: we win, and our proof is
			// p plus the witness that the opponent had nothing.
			proof := childProof.Clone()
			proof.Set(p)
			if s.Cfg.ShrinkProofs {
				proof = shrinkWinProof(hb, toPlay, p, proof)
			}
			s.record(hash, ttable.Win, p, proof)
			return ttable.Win, p, proof, nil
		case ttable.Win:
			lossProof.Union(childProof)
			lossProof.Set(p)
		default:
			sawUnknown = true
		}
	}

	if sawUnknown {
		return ttable.Unknown, geometry.InvalidPoint, geometry.Bitset{}, nil
	}

	// Every mustplay reply loses for us: the union of each reply's own
	// cell and the opponent's winning reply to it is sufficient to show
	// we had nothing, regardless of which of our replies we'd tried.
	s.record(hash, ttable.Loss, geometry.InvalidPoint, lossProof)
	return ttable.Loss, geometry.InvalidPoint, lossProof, nil
}

// droppedCandidate is a candidate the probe resolved to a loss for
// toPlay without recursing, carrying the same (point, proof) shape
// solveState's main loop accumulates into lossProof for a Win child.
type droppedCandidate struct {
	Point geometry.Point
	Proof geometry.Bitset
}

// mustplayProbeResult is mustplayProbe's verdict: either an immediate
// shortcut (skip recursion entirely) or a possibly-shrunk, scored
// candidate list plus proofs for any candidate already resolved as a
// loss.
type mustplayProbeResult struct {
	HasShortcut   bool
	ShortcutMove  geometry.Point
	ShortcutProof geometry.Bitset

	Candidates []geometry.Point
	Score      map[geometry.Point]int
	Dropped    []droppedCandidate
}

// mustplayProbe implements the real ORDER_WITH_MUSTPLAY behavior of
// spec.md §4.6, "the single largest determinant of solver speed": for
// each candidate, play it, look up the resulting position in the
// transposition table, and:
//   - if it's already a proven loss for the mover there (our opponent,
//     after our reply) — a win for toPlay — shortcut immediately and
//     return just that candidate, since nothing else can matter now;
//   - if it's already a proven win for the mover there — a loss for
//     toPlay — drop the candidate from recursion, carrying its known
//     proof forward (mustplay shrink: toPlay already knows this reply
//     fails, no need to search it again);
//   - otherwise, score it by the resulting position's own mustplay
//     size for the player to move there (toPlay's opponent): a smaller
//     opponent mustplay is worse for the opponent, so it sorts first.
//
// vcSet is the opponent's connection set at the pre-move position,
// used only for the defensive check below. Every move is undone before
// returning, so the board is unchanged on every exit path.
func (s *Solver) mustplayProbe(hb *hexboard.Board, toPlay geometry.Color, vcSet *vc.Set, candidates []geometry.Point) (mustplayProbeResult, error) {
	semis := vcSet.WinningSemis(hb.Groups, hb.Geo)
	result := mustplayProbeResult{
		Candidates: make([]geometry.Point, 0, len(candidates)),
		Score:      make(map[geometry.Point]int, len(candidates)),
	}

	for _, p := range candidates {
		// Every candidate was drawn from mustplay: when semis exist that
		// is the union of their carriers, so some semi touching p always
		// exists, and when none exist Mustplay falls back to every empty
		// cell and nothing is filtered. This can never actually drop
		// anything, but the rule is kept explicit rather than silently
		// assumed.
		touched := len(semis) == 0
		for _, semi := range semis {
			if semi.Carrier.Test(p) {
				touched = true
				break
			}
		}
		if !touched {
			continue
		}

		if err := hb.PlayMove(p, toPlay); err != nil {
			return mustplayProbeResult{}, err
		}
		hash := hb.Stone.Hash()
		entry, hit := s.TT.Lookup(hash)
		var shortcut, dropped bool
		var oppMustplaySize int
		var childProof geometry.Bitset
		switch {
		case hit && entry.Result() == ttable.Loss:
			shortcut = true
			childProof = entry.Proof()
		case hit && entry.Result() == ttable.Win:
			dropped = true
			childProof = entry.Proof()
		default:
			// The player to move at this child is toPlay's opponent;
			// their mustplay there is read off hb.VC[toPlay], the same
			// "mover.Opposite()" convention solveState itself uses.
			oppMustplaySize = hb.VC[toPlay].Mustplay(hb.Groups, hb.Geo, hb.Stone).Count()
		}
		if err := hb.UndoMove(); err != nil {
			return mustplayProbeResult{}, err
		}

		switch {
		case shortcut:
			return mustplayProbeResult{HasShortcut: true, ShortcutMove: p, ShortcutProof: childProof}, nil
		case dropped:
			result.Dropped = append(result.Dropped, droppedCandidate{Point: p, Proof: childProof})
		default:
			result.Score[p] = -oppMustplaySize
			result.Candidates = append(result.Candidates, p)
		}
	}
	return result, nil
}

func (s *Solver) record(hash uint64, result ttable.Result, move geometry.Point, proof geometry.Bitset) {
	s.TT.Store(hash, result, 0, move, proof)
	if s.DB != nil {
		s.DB.Put(hash, result, 0, move, proof)
	}
}

// immediateResult detects a position whose outcome is already forced
// by stones alone: one color's two edges are already the same group
// (they've won). A full board with neither color connected is reported
// as undecided, like any other position.
func immediateResult(hb *hexboard.Board, toPlay geometry.Color) (ttable.Result, geometry.Bitset, bool) {
	opp := toPlay.Opposite()
	if connected(hb, toPlay) {
		return ttable.Win, winningProof(hb, toPlay), true
	}
	if connected(hb, opp) {
		return ttable.Loss, winningProof(hb, opp), true
	}
	if hb.Stone.Empty().None() {
		// No draws in Hex: if neither side shows connected groups yet
		// the position is malformed, but callers of this package never
		// construct one, so this is unreachable in practice.
		return ttable.Unknown, geometry.Bitset{}, false
	}
	return ttable.Unknown, geometry.Bitset{}, false
}

func connected(hb *hexboard.Board, c geometry.Color) bool {
	e1 := hb.Groups.GroupAt(hb.Geo.ColorEdge1(c))
	e2 := hb.Groups.GroupAt(hb.Geo.ColorEdge2(c))
	return e1 != nil && e2 != nil && e1.Captain == e2.Captain
}

func winningProof(hb *hexboard.Board, c geometry.Color) geometry.Bitset {
	grp := hb.Groups.GroupAt(hb.Geo.ColorEdge1(c))
	if grp == nil {
		return geometry.NewBitset(hb.Geo.NumPoints)
	}
	return grp.Members.Clone()
}

// shrinkWinProof greedily drops cells from a winning proof and keeps
// the drop only if the mover's stones still connect end to end without
// it — a bounded, structural check (a BFS over the winner's stones,
// see stonesConnectEdges) rather than a full
// re-solve of the shrunk position, since re-solving recursively would
// make shrinking as expensive as the search it's trying to cheapen.
func shrinkWinProof(hb *hexboard.Board, winner geometry.Color, lastMove geometry.Point, proof geometry.Bitset) geometry.Bitset {
	scratch := hb.Stone.Clone()
	pts := proof.Points()
	for _, p := range pts {
		if p == lastMove {
			continue
		}
		if scratch.Color(p) != winner {
			continue
		}
		scratch.RemoveStone(p)
		if !stonesConnectEdges(hb.Geo, scratch, winner) {
			scratch.PlaceStone(p, winner)
			continue
		}
		proof.Clear(p)
	}
	return proof
}

// stonesConnectEdges reports whether winner's stones alone (no VC
// reasoning, pure adjacency) already form an unbroken chain from one
// of winner's edges to the other.
func stonesConnectEdges(geo *geometry.Board, scratch *stoneboard.Board, winner geometry.Color) bool {
	start := geo.ColorEdge1(winner)
	target := geo.ColorEdge2(winner)
	visited := geometry.NewBitset(geo.NumPoints)
	queue := []geometry.Point{start}
	visited.Set(start)
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p == target {
			return true
		}
		for _, n := range geo.Neighbors(p) {
			if visited.Test(n) {
				continue
			}
			if scratch.Color(n) != winner {
				continue
			}
			visited.Set(n)
			queue = append(queue, n)
		}
	}
	return false
}
