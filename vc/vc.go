// Package vc implements the virtual-connection builder of SPEC_FULL.md
// §4.2A: a modest H-search that finds semi-connections between a
// color's two edges. Only Anshelevich's AND rule is applied, bounded by
// MaxAndDepth; there is no OR rule.
//
// spec.md itself treats VC construction as an external black box; this
// package is the concrete instantiation that box resolves to here, with
// a correctness-preserving escape hatch — dfssolver never trusts this
// package to have found every connection, only to narrow the mustplay
// set when it has found some. A builder that found nothing still lets
// the solver proceed correctly, just with a larger (safe) mustplay.
package vc

import (
	"github.com/domino14/hexsolve/geometry"
	"github.com/domino14/hexsolve/groups"
	"github.com/domino14/hexsolve/stoneboard"
)

// MaxAndDepth bounds how many rounds of AND-rule composition the
// builder performs before giving up on a pair, trading completeness for
// a predictable worst case — ported from benzene's VCBuilderParam
// and_depth, but fixed rather than configurable since this package has
// no knowledge of time budgets (dfssolver owns those).
const MaxAndDepth = 4

// Connection is one proven semi-connection: playing every cell in
// Carrier (in any order, uncontested) joins the two endpoints. An empty
// Carrier means the endpoints are already connected outright.
type Connection struct {
	Carrier geometry.Bitset
}

// Set is the full collection of connections found between a color's
// groups for one position.
type Set struct {
	color    geometry.Color
	byPair   map[[2]geometry.Point][]Connection
}

// entities returns the captain point of every group of color c,
// including the two edge groups (edges are always pre-colored, so
// they're ordinary entries in g.OfColor(c)).
func entities(g *groups.Groups, c geometry.Color) []geometry.Point {
	grps := g.OfColor(c)
	out := make([]geometry.Point, len(grps))
	for i, grp := range grps {
		out[i] = grp.Captain
	}
	return out
}

// sharedEndpoint returns the node shared between two sorted pairs (as y)
// and the other endpoint of a (as x), or ok=false if they share none.
func sharedEndpoint(a, b [2]geometry.Point) (x, y geometry.Point, ok bool) {
	switch {
	case a[0] == b[0] || a[0] == b[1]:
		return a[1], a[0], true
	case a[1] == b[0] || a[1] == b[1]:
		return a[0], a[1], true
	default:
		return 0, 0, false
	}
}

func pairKey(a, b geometry.Point) [2]geometry.Point {
	if a > b {
		a, b = b, a
	}
	return [2]geometry.Point{a, b}
}

// Build runs the bounded H-search for color c and returns the resulting
// Set. The board and groups are not mutated.
func Build(board *stoneboard.Board, g *groups.Groups, c geometry.Color) *Set {
	s := &Set{color: c, byPair: make(map[[2]geometry.Point][]Connection)}
	ents := entities(g, c)
	captainOfGroup := make(map[geometry.Point]*groups.Group)
	for _, grp := range g.OfColor(c) {
		captainOfGroup[grp.Captain] = grp
	}

	// Base case: a single shared empty liberty cell connects two groups
	// outright (the cell, once played by c, merges them).
	for i := 0; i < len(ents); i++ {
		for j := i + 1; j < len(ents); j++ {
			x, y := ents[i], ents[j]
			gx, gy := captainOfGroup[x], captainOfGroup[y]
			shared := geometry.And(gx.Liberties, gy.Liberties)
			shared.ForEach(func(e geometry.Point) {
				carrier := geometry.NewBitset(board.Geo.NumPoints)
				carrier.Set(e)
				s.add(x, y, Connection{Carrier: carrier})
			})
			if board.Geo.Adjacent(x, y) {
				s.add(x, y, Connection{Carrier: geometry.NewBitset(board.Geo.NumPoints)})
			}
		}
	}

	// AND-rule composition: chain disjoint-carrier connections through a
	// shared endpoint, bounded by MaxAndDepth rounds.
	for round := 0; round < MaxAndDepth; round++ {
		added := false
		snapshot := s.pairs()
		for _, pxy := range snapshot {
			for _, pyz := range snapshot {
				x, y, ok := sharedEndpoint(pxy, pyz)
				if !ok {
					continue
				}
				z := pyz[0]
				if z == y {
					z = pyz[1]
				}
				if x == z {
					continue
				}
				for _, cxy := range s.byPair[pxy] {
					for _, cyz := range s.byPair[pyz] {
						if cxy.Carrier.Intersects(cyz.Carrier) {
							continue
						}
						merged := cxy.Carrier.Clone()
						merged.Union(cyz.Carrier)
						if s.add(x, z, Connection{Carrier: merged}) {
							added = true
						}
					}
				}
			}
		}
		if !added {
			break
		}
	}

	return s
}

// add records conn between a and b unless a connection with a subset
// (or equal) carrier is already known for that pair — returns true if
// it was genuinely new, used to detect fixpoint during AND composition.
func (s *Set) add(a, b geometry.Point, conn Connection) bool {
	key := pairKey(a, b)
	for _, existing := range s.byPair[key] {
		if existing.Carrier.IsSubsetOf(conn.Carrier) {
			return false
		}
	}
	s.byPair[key] = append(s.byPair[key], conn)
	return true
}

func (s *Set) pairs() [][2]geometry.Point {
	out := make([][2]geometry.Point, 0, len(s.byPair))
	for k := range s.byPair {
		out = append(out, k)
	}
	return out
}

// Connections returns every connection found between a and b, in
// whichever order they were added.
func (s *Set) Connections(a, b geometry.Point) []Connection {
	return s.byPair[pairKey(a, b)]
}

// WinningSemis returns the connections found between the color's two
// canonical edge entities, resolved through the current Groups (an
// edge's captain may have merged with interior stones).
func (s *Set) WinningSemis(g *groups.Groups, geo *geometry.Board) []Connection {
	e1 := g.GroupAt(geo.ColorEdge1(s.color))
	e2 := g.GroupAt(geo.ColorEdge2(s.color))
	if e1 == nil || e2 == nil {
		return nil
	}
	if e1.Captain == e2.Captain {
		// Stones already join the two edges into one group.
		return []Connection{{Carrier: geometry.NewBitset(geo.NumPoints)}}
	}
	return s.Connections(e1.Captain, e2.Captain)
}

// FullyConnected reports whether any winning semi has an empty carrier,
// meaning the edges are already joined by stones alone.
func (s *Set) FullyConnected(g *groups.Groups, geo *geometry.Board) bool {
	for _, c := range s.WinningSemis(g, geo) {
		if c.Carrier.None() {
			return true
		}
	}
	return false
}

// Mustplay returns the union of every winning semi's carrier — the set
// of empty cells the opponent must contest, restricted to board.Empty()
// so already-filled cells never appear. If the builder found no
// winning semi at all, Mustplay falls back to every empty cell
// (SPEC_FULL.md §4.2A's correctness-preserving escape hatch): the
// solver stays sound, just slower, when this package's search proves
// too weak to find any connection.
func (s *Set) Mustplay(g *groups.Groups, geo *geometry.Board, board *stoneboard.Board) geometry.Bitset {
	semis := s.WinningSemis(g, geo)
	if len(semis) == 0 {
		return board.Empty()
	}
	out := geometry.NewBitset(geo.NumPoints)
	for _, c := range semis {
		out.Union(c.Carrier)
	}
	out.Intersect(board.Empty())
	return out
}
