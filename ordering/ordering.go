// Package ordering implements the move-ordering flags of spec.md §4.4:
// ORDER_FROM_CENTER, ORDER_WITH_RESIST, and ORDER_WITH_MUSTPLAY combine
// into one score per candidate move so dfssolver can sort its move list
// before descending, which matters a great deal for DFS node counts
// even though it never changes the final WIN/LOSS answer.
//
// ORDER_WITH_RESIST borrows the teacher's one instance of numerical
// linear algebra (stats.ZVal's gonum.org/v1/gonum/stat/distuv) by
// reaching for a different gonum subpackage, mat, to solve the
// resistance-network linear system — the same library, applied to Hex's
// own electrical-circuit move-ordering heuristic rather than Scrabble's
// confidence intervals.
package ordering

import (
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/domino14/hexsolve/geometry"
	"github.com/domino14/hexsolve/groups"
	"github.com/domino14/hexsolve/stoneboard"
)

// Flags is the bitmask param_solver surface selecting which heuristics
// contribute to a move's score.
type Flags uint8

const (
	OrderFromCenter Flags = 1 << iota
	OrderWithResist
	OrderWithMustplay
)

// Order sorts candidates (a subset of empty cells, typically the
// mustplay set) best-first according to flags, for color c to move.
// Ties fall back to ascending point index so ordering is deterministic
// across runs, which matters for reproducing a solve's node count.
//
// mustplayScore carries the result of dfssolver's ORDER_WITH_MUSTPLAY
// probe (spec.md §4.6): for each candidate, the opponent's resulting
// mustplay size after playing it, negated so a smaller opponent
// mustplay (worse for the opponent, better for c) sorts first. Package
// ordering has no board/TT access of its own to run that probe, so it
// only consumes the scores a caller already computed; a nil map or a
// missing entry contributes 0. Ignored entirely unless
// flags&OrderWithMustplay != 0.
func Order(board *stoneboard.Board, g *groups.Groups, c geometry.Color, mustplayScore map[geometry.Point]int, candidates []geometry.Point, flags Flags) []geometry.Point {
	// Callers that assemble candidates from more than one bitset (a
	// future multi-source mustplay union, say) could hand us the same
	// point twice; lo.Uniq keeps this safe without every caller having
	// to dedup itself.
	out := lo.Uniq(candidates)

	var resist map[geometry.Point]float64
	if flags&OrderWithResist != 0 {
		resist = Resistance(board, g, c)
	}

	score := func(p geometry.Point) float64 {
		var s float64
		if flags&OrderWithMustplay != 0 {
			s += float64(mustplayScore[p]) * 1e6
		}
		if flags&OrderWithResist != 0 {
			s += resist[p] * 1e3
		}
		if flags&OrderFromCenter != 0 {
			s -= float64(board.Geo.CenterDistance2(p))
		}
		return s
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := score(out[i]), score(out[j])
		if si != sj {
			return si > sj
		}
		return out[i] < out[j]
	})
	return out
}

// Resistance solves the unit-conductance electrical network between
// color c's two edges — every empty cell and every edge-touching
// liberty is a node, every hex-adjacency an edge of conductance 1 — and
// returns the current magnitude through each empty cell, approximating
// how central that cell is to c's best remaining connection (a higher
// current means removing that cell does more damage to the network).
// Opponent stones are simply absent from the graph: current cannot
// flow through them. Cells with no path to either edge get 0.
func Resistance(board *stoneboard.Board, g *groups.Groups, c geometry.Color) map[geometry.Point]float64 {
	geo := board.Geo
	empties := board.Empty().Points()
	if len(empties) == 0 {
		return map[geometry.Point]float64{}
	}

	idx := make(map[geometry.Point]int, len(empties))
	for i, p := range empties {
		idx[p] = i
	}
	n := len(empties)

	e1 := g.GroupAt(geo.ColorEdge1(c))
	e2 := g.GroupAt(geo.ColorEdge2(c))
	if e1 == nil || e2 == nil {
		return map[geometry.Point]float64{}
	}

	conductance := mat.NewDense(n, n, nil)
	sourceInjection := mat.NewVecDense(n, nil)

	addEdge := func(i, j int, w float64) {
		conductance.Set(i, i, conductance.At(i, i)+w)
		conductance.Set(j, j, conductance.At(j, j)+w)
		conductance.Set(i, j, conductance.At(i, j)-w)
		conductance.Set(j, i, conductance.At(j, i)-w)
	}

	for _, p := range empties {
		i := idx[p]
		for _, nb := range geo.Neighbors(p) {
			if j, ok := idx[nb]; ok && j > i {
				addEdge(i, j, 1)
			}
		}
		if e1.Liberties.Test(p) {
			conductance.Set(i, i, conductance.At(i, i)+1)
			sourceInjection.SetVec(i, sourceInjection.AtVec(i)+1) // 1A injected from the source edge
		}
		if e2.Liberties.Test(p) {
			conductance.Set(i, i, conductance.At(i, i)+1) // grounded at the sink edge
		}
	}

	var voltage mat.VecDense
	if err := voltage.SolveVec(conductance, sourceInjection); err != nil {
		return map[geometry.Point]float64{}
	}

	out := make(map[geometry.Point]float64, n)
	for _, p := range empties {
		i := idx[p]
		v := voltage.AtVec(i)
		current := 0.0
		for _, nb := range geo.Neighbors(p) {
			if j, ok := idx[nb]; ok {
				current += absDiff(v, voltage.AtVec(j))
			}
		}
		if e1.Liberties.Test(p) {
			current += absDiff(v, 1)
		}
		if e2.Liberties.Test(p) {
			current += absDiff(v, 0)
		}
		out[p] = current
	}
	return out
}

func absDiff(a, b float64) float64 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
