package ice

import (
	"github.com/domino14/hexsolve/geometry"
	"github.com/domino14/hexsolve/groups"
	"github.com/domino14/hexsolve/stoneboard"
)

// reachableVia runs a BFS from every point in sources, stepping only
// onto cells whose color is in allowed, and returns the visited set —
// the primitive behind ComputeEdgeUnreachableRegions in
// original_source/src/hex/ICEngine.cpp.
func reachableVia(geo *geometry.Board, colorAt func(geometry.Point) geometry.Color, sources []geometry.Point, allowed func(geometry.Color) bool) geometry.Bitset {
	visited := geometry.NewBitset(geo.NumPoints)
	queue := make([]geometry.Point, 0, len(sources))
	for _, s := range sources {
		if !visited.Test(s) {
			visited.Set(s)
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, n := range geo.Neighbors(p) {
			if visited.Test(n) {
				continue
			}
			if !allowed(colorAt(n)) {
				continue
			}
			visited.Set(n)
			queue = append(queue, n)
		}
	}
	return visited
}

// edgeUnreachableForColor returns the empty cells that cannot lie on any
// chain of c-or-empty cells connecting c's two edges — ported from
// ICEngine.cpp's ComputeEdgeUnreachableRegions, generalized from a
// fixed 4-edge board to geometry.Board's two-edge-per-color model.
func edgeUnreachableForColor(board *stoneboard.Board, c geometry.Color) geometry.Bitset {
	geo := board.Geo
	allowed := func(col geometry.Color) bool { return col == geometry.Empty || col == c }
	e1, e2 := geo.ColorEdge1(c), geo.ColorEdge2(c)
	reach1 := reachableVia(geo, board.Color, []geometry.Point{e1}, allowed)
	reach2 := reachableVia(geo, board.Color, []geometry.Point{e2}, allowed)
	useful := geometry.And(reach1, reach2)
	unreachable := geometry.Diff(board.Empty(), useful)
	return unreachable
}

// reachableExcludingStopSet is reachableVia with an extra hard
// exclusion: stopSet cells are removed from the flow graph entirely
// (never visited, regardless of color), rather than merely disallowed
// as a color mismatch would be. This is the distinction
// ComputeEdgeUnreachableRegions in ICEngine.cpp draws between "blocked
// because occupied by the wrong color" and "blocked because it's part
// of the clique cutset itself."
func reachableExcludingStopSet(geo *geometry.Board, colorAt func(geometry.Point) geometry.Color, stopSet geometry.Bitset, c geometry.Color, source geometry.Point) geometry.Bitset {
	visited := geometry.NewBitset(geo.NumPoints)
	if stopSet.Test(source) {
		return visited
	}
	visited.Set(source)
	queue := []geometry.Point{source}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, n := range geo.Neighbors(p) {
			if visited.Test(n) || stopSet.Test(n) {
				continue
			}
			col := colorAt(n)
			if col != geometry.Empty && col != c {
				continue
			}
			visited.Set(n)
			queue = append(queue, n)
		}
	}
	return visited
}

// computeEdgeUnreachableRegions is ComputeEdgeUnreachableRegions from
// ICEngine.cpp: the empty cells unreachable from EITHER of c's two
// edges once stopSet is excised from the flow graph — unlike
// edgeUnreachableForColor/findGraphDead's AND-style "not reachable to
// BOTH edges simultaneously" rule, this is OR-style, since the clique
// families below feed in a stop-set made of c's own cells and want
// every cell that loses its LAST path to either edge.
func computeEdgeUnreachableRegions(board *stoneboard.Board, c geometry.Color, stopSet geometry.Bitset) geometry.Bitset {
	geo := board.Geo
	e1, e2 := geo.ColorEdge1(c), geo.ColorEdge2(c)
	reach1 := reachableExcludingStopSet(geo, board.Color, stopSet, c, e1)
	reach2 := reachableExcludingStopSet(geo, board.Color, stopSet, c, e2)
	return geometry.Diff(board.Empty(), geometry.Or(reach1, reach2))
}

// findType1Cliques ports ICEngine.cpp's FindType1Cliques: it finds a
// pair of empty cells x,y that are not directly adjacent but are
// bridge-connected through a shared occupied group (their
// Nbs(NOT_EMPTY) sets intersect), plus a third empty cell z adjacent
// to both, such that some of the x/y bridge cells are not also
// reachable through z. The three cells x,y,z then form a clique cutset
// for whichever color(s) own those exclusive bridge cells.
func findType1Cliques(board *stoneboard.Board, g *groups.Groups) geometry.Bitset {
	geo := board.Geo
	dead := geometry.NewBitset(geo.NumPoints)
	empty := board.Empty().Points()

	for i, x := range empty {
		xNbs := g.NonEmptyNeighbors(x, board)
		for j := i + 1; j < len(empty); j++ {
			y := empty[j]
			if geo.Adjacent(x, y) {
				continue
			}
			yNbs := g.NonEmptyNeighbors(y, board)
			xy := geometry.And(xNbs, yNbs)
			if xy.None() {
				continue
			}
			for _, z := range empty {
				if !geo.Adjacent(x, z) || !geo.Adjacent(y, z) {
					continue
				}
				zNbs := g.NonEmptyNeighbors(z, board)
				exclusive := geometry.Diff(xy, zNbs)
				if exclusive.None() {
					continue
				}
				clique := geometry.NewBitset(geo.NumPoints)
				clique.Set(x)
				clique.Set(y)
				clique.Set(z)
				if geometry.And(exclusive, board.Black()).Any() {
					dead.Union(computeEdgeUnreachableRegions(board, geometry.Black, clique))
				}
				if geometry.And(exclusive, board.White()).Any() {
					dead.Union(computeEdgeUnreachableRegions(board, geometry.White, clique))
				}
			}
		}
	}
	return dead
}

// findType2Cliques ports FindType2Cliques: two non-edge groups of the
// same color with overlapping liberties, each also holding a liberty
// exclusive to itself, where one group's exclusive liberty is directly
// adjacent to the other's. The shared liberties plus those two
// exclusive cells form a clique cutset for that color.
func findType2Cliques(board *stoneboard.Board, g *groups.Groups) geometry.Bitset {
	geo := board.Geo
	dead := geometry.NewBitset(geo.NumPoints)
	for _, c := range []geometry.Color{geometry.Black, geometry.White} {
		grps := g.OfColor(c)
		for i, g1 := range grps {
			if geo.IsEdge(g1.Captain) {
				continue
			}
			for j := i + 1; j < len(grps); j++ {
				g2 := grps[j]
				if geo.IsEdge(g2.Captain) {
					continue
				}
				common := geometry.And(g1.Liberties, g2.Liberties)
				if common.None() {
					continue
				}
				g1Excl := geometry.Diff(g1.Liberties, g2.Liberties)
				if g1Excl.None() {
					continue
				}
				g2Excl := geometry.Diff(g2.Liberties, g1.Liberties)
				if g2Excl.None() {
					continue
				}
				for _, x := range g1Excl.Points() {
					for _, y := range g2Excl.Points() {
						if !geo.Adjacent(x, y) {
							continue
						}
						clique := common.Clone()
						clique.Set(x)
						clique.Set(y)
						dead.Union(computeEdgeUnreachableRegions(board, c, clique))
					}
				}
			}
		}
	}
	return dead
}

// findType3Cliques ports FindType3Cliques: three non-edge groups of
// the same color whose liberties pairwise intersect; the union of the
// three pairwise intersections forms a clique cutset for that color.
func findType3Cliques(board *stoneboard.Board, g *groups.Groups) geometry.Bitset {
	geo := board.Geo
	dead := geometry.NewBitset(geo.NumPoints)
	for _, c := range []geometry.Color{geometry.Black, geometry.White} {
		grps := g.OfColor(c)
		for i, g1 := range grps {
			if geo.IsEdge(g1.Captain) {
				continue
			}
			for j := i + 1; j < len(grps); j++ {
				g2 := grps[j]
				if geo.IsEdge(g2.Captain) {
					continue
				}
				g12 := geometry.And(g1.Liberties, g2.Liberties)
				if g12.None() {
					continue
				}
				for k := j + 1; k < len(grps); k++ {
					g3 := grps[k]
					if geo.IsEdge(g3.Captain) {
						continue
					}
					g13 := geometry.And(g1.Liberties, g3.Liberties)
					if g13.None() {
						continue
					}
					g23 := geometry.And(g2.Liberties, g3.Liberties)
					if g23.None() {
						continue
					}
					clique := geometry.Or(geometry.Or(g12, g13), g23)
					dead.Union(computeEdgeUnreachableRegions(board, c, clique))
				}
			}
		}
	}
	return dead
}

// findThreeSetCliques ports FindThreeSetCliques: the union of all
// three clique families, gated behind Config.FindCliqueCutsets since
// each family is at least cubic in the number of empty cells/groups.
func findThreeSetCliques(board *stoneboard.Board, g *groups.Groups) geometry.Bitset {
	dead := findType1Cliques(board, g)
	dead.Union(findType2Cliques(board, g))
	dead.Union(findType3Cliques(board, g))
	return dead
}

// findGraphDead returns empty cells unreachable for both colors: no
// chain of either color can ever pass through them, so they can never
// matter to the outcome (spec.md §4.1's graph-theoretic dead rule).
func (e *Engine) findGraphDead(board *stoneboard.Board, g *groups.Groups) geometry.Bitset {
	black := edgeUnreachableForColor(board, geometry.Black)
	white := edgeUnreachableForColor(board, geometry.White)
	return geometry.And(black, white)
}

// neighborItem is one element of the reduced adjacency graph around an
// empty cell p: either a single empty neighbor, or the whole occupied
// group one of p's stone-neighbors belongs to (collapsed to one item,
// since within a group every cell is already mutually connected).
type neighborItem struct {
	point     geometry.Point // representative point (the neighbor of p itself)
	isGroup   bool
	color     geometry.Color  // only set when isGroup
	liberties geometry.Bitset // only set when isGroup
}

func neighborItems(board *stoneboard.Board, g *groups.Groups, p geometry.Point) []neighborItem {
	geo := board.Geo
	seen := make(map[geometry.Point]bool)
	var items []neighborItem
	for _, n := range geo.Neighbors(p) {
		if board.Color(n) == geometry.Dead {
			continue
		}
		if board.IsEmpty(n) {
			items = append(items, neighborItem{point: n})
			continue
		}
		grp := g.GroupAt(n)
		if grp == nil || seen[grp.Captain] {
			continue
		}
		seen[grp.Captain] = true
		items = append(items, neighborItem{point: n, isGroup: true, color: grp.Color, liberties: grp.Liberties})
	}
	return items
}

// adjacentItems approximates whether two reduced neighbors are
// connected to each other independently of p: two empty items are
// connected iff they are board-adjacent; an empty item and a group item
// are connected iff the empty item is one of the group's liberties
// (so the group could extend onto it without going through p); two
// group items are never treated as directly connected, since merging
// distinct groups is exactly what playing at p would do.
func adjacentItems(geo *geometry.Board, a, b neighborItem) bool {
	switch {
	case !a.isGroup && !b.isGroup:
		return geo.Adjacent(a.point, b.point)
	case a.isGroup && !b.isGroup:
		return a.liberties.Test(b.point)
	case !a.isGroup && b.isGroup:
		return b.liberties.Test(a.point)
	default:
		return false
	}
}

// isClique reports whether every pair in items is pairwise adjacent.
func isClique(geo *geometry.Board, items []neighborItem) bool {
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if !adjacentItems(geo, items[i], items[j]) {
				return false
			}
		}
	}
	return true
}

// findGraphVulnerable implements the presimplicial/vulnerable detection
// of spec.md §4.1: an empty cell p is vulnerable to color c if removing
// exactly one of its reduced neighbors (the killer) from consideration
// makes the rest pairwise-adjacent — meaning any reply elsewhere in the
// neighborhood already connects everything the killer would have, so c
// never needs to play at p directly. When the killer slot is already
// occupied by the opponent rather than empty, there's no move left for
// c to make there at all: p is captured outright instead of merely
// vulnerable, and its point is added to the returned bitset.
func (e *Engine) findGraphVulnerable(board *stoneboard.Board, g *groups.Groups, c geometry.Color, ic *InferiorCells) geometry.Bitset {
	geo := board.Geo
	capturedHits := geometry.NewBitset(geo.NumPoints)

	board.Empty().ForEach(func(p geometry.Point) {
		items := neighborItems(board, g, p)
		if len(items) < 2 {
			return
		}
		for i := range items {
			killer := items[i]
			if killer.isGroup && killer.color != c.Opposite() {
				continue // only an empty cell or an opponent stone can be a killer
			}
			rest := make([]neighborItem, 0, len(items)-1)
			rest = append(rest, items[:i]...)
			rest = append(rest, items[i+1:]...)
			if !isClique(geo, rest) {
				continue
			}
			if killer.isGroup {
				capturedHits.Set(p)
				continue
			}
			carrier := geometry.NewBitset(geo.NumPoints)
			for _, r := range rest {
				carrier.Set(r.point)
			}
			ic.Vulnerable[p] = append(ic.Vulnerable[p], VulnerableWitness{
				Color:   c,
				Killer:  killer.point,
				Carrier: carrier,
			})
		}
	})
	return capturedHits
}
