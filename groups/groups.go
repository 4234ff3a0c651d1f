// Package groups implements spec.md §3's Groups: a union-find partition
// of occupied cells and edges into connected same-color components, with
// per-group size, membership, and liberties (empty-neighbor) queries.
//
// Mirrors the teacher's cross_set/board union-of-adjacent-state style of
// deriving a secondary structure from StoneBoard, but as an explicit
// union-find rather than a per-square bitmask, since Hex groups can span
// the whole board.
package groups

import (
	"github.com/domino14/hexsolve/geometry"
	"github.com/domino14/hexsolve/stoneboard"
)

// Group is one connected component of same-colored stones (or an edge).
type Group struct {
	Captain   geometry.Point
	Color     geometry.Color
	Members   geometry.Bitset
	Liberties geometry.Bitset // empty neighbor cells of the group
}

func (g *Group) Size() int { return g.Members.Count() }

// Groups is the full partition for one board state. It is recomputed
// from scratch whenever the underlying StoneBoard's fillin changes,
// exactly as spec.md §3 requires ("Groups are recomputed from
// StoneBoard when fillin changes") — Hex boards are small enough that a
// full O(cells) recompute is cheap relative to ICE/VC work at the same
// node.
type Groups struct {
	geo      *geometry.Board
	parent   []int32
	rank     []uint8
	captains map[geometry.Point]*Group
	captainOf []geometry.Point // per point; InvalidPoint if not in any group
}

// Compute builds a fresh Groups view of board. Dead and Empty cells do
// not belong to any group; Dead is "treated as no color for adjacency"
// per spec.md §4.2 — it simply never matches a same-color neighbor, the
// same as any other non-matching cell.
func Compute(board *stoneboard.Board) *Groups {
	geo := board.Geo
	g := &Groups{
		geo:       geo,
		parent:    make([]int32, geo.NumPoints),
		rank:      make([]uint8, geo.NumPoints),
		captains:  make(map[geometry.Point]*Group),
		captainOf: make([]geometry.Point, geo.NumPoints),
	}
	for i := range g.parent {
		g.parent[i] = int32(i)
		g.captainOf[i] = geometry.InvalidPoint
	}

	occupied := geometry.Or(board.Black(), board.White())
	occupied.ForEach(func(p geometry.Point) {
		c := board.Color(p)
		for _, n := range geo.Neighbors(p) {
			if !occupied.Test(n) {
				continue
			}
			if board.Color(n) != c {
				continue
			}
			g.union(p, n)
		}
	})

	empty := board.Empty()
	occupied.ForEach(func(p geometry.Point) {
		root := g.find(p)
		capt := geometry.Point(root)
		grp, ok := g.captains[capt]
		if !ok {
			grp = &Group{
				Captain: capt,
				Color:   board.Color(p),
				Members: geometry.NewBitset(geo.NumPoints),
			}
			g.captains[capt] = grp
		}
		grp.Members.Set(p)
		g.captainOf[p] = capt
	})

	for _, grp := range g.captains {
		libs := geometry.NewBitset(geo.NumPoints)
		grp.Members.ForEach(func(p geometry.Point) {
			for _, n := range geo.Neighbors(p) {
				if empty.Test(n) {
					libs.Set(n)
				}
			}
		})
		grp.Liberties = libs
	}

	return g
}

func (g *Groups) find(p geometry.Point) int32 {
	root := int32(p)
	for g.parent[root] != root {
		root = g.parent[root]
	}
	// path compression
	for g.parent[p] != root {
		next := g.parent[p]
		g.parent[p] = root
		p = geometry.Point(next)
	}
	return root
}

func (g *Groups) union(a, b geometry.Point) {
	ra, rb := g.find(a), g.find(b)
	if ra == rb {
		return
	}
	if g.rank[ra] < g.rank[rb] {
		ra, rb = rb, ra
	}
	g.parent[rb] = ra
	if g.rank[ra] == g.rank[rb] {
		g.rank[ra]++
	}
}

// GroupAt returns the group containing p, or nil if p is empty/dead.
func (g *Groups) GroupAt(p geometry.Point) *Group {
	capt := g.captainOf[p]
	if capt == geometry.InvalidPoint {
		return nil
	}
	return g.captains[capt]
}

// All returns every group, regardless of color.
func (g *Groups) All() []*Group {
	out := make([]*Group, 0, len(g.captains))
	for _, grp := range g.captains {
		out = append(out, grp)
	}
	return out
}

// OfColor returns every group of the given color.
func (g *Groups) OfColor(c geometry.Color) []*Group {
	var out []*Group
	for _, grp := range g.captains {
		if grp.Color == c {
			out = append(out, grp)
		}
	}
	return out
}

// NonEmptyNeighbors returns the union of the liberties (empty-neighbor
// bitsets) of every group, of either color, adjacent to p — the
// "Nbs(p, NOT_EMPTY)" query from the original ICEngine, used by the
// Type-1 clique-cutset search in package ice to find
// the empty cells reachable from p by "bridging" through an occupied
// group's other liberties. p itself is never included, even if it sits
// among a neighboring group's liberties.
func (g *Groups) NonEmptyNeighbors(p geometry.Point, board *stoneboard.Board) geometry.Bitset {
	out := geometry.NewBitset(g.geo.NumPoints)
	seen := make(map[geometry.Point]bool)
	for _, n := range g.geo.Neighbors(p) {
		if board.Color(n) == geometry.Empty {
			continue
		}
		grp := g.GroupAt(n)
		if grp == nil || seen[grp.Captain] {
			continue
		}
		seen[grp.Captain] = true
		out.Union(grp.Liberties)
	}
	out.Clear(p)
	return out
}
