// Package pattern implements the pattern matcher of spec.md §4.1: a
// small closed set of pattern kinds (Dead/Captured/PermInf/Vulnerable/
// Reversible/Dominated), matched against a cell's immediate hex
// neighborhood, dispatched through a single match routine per kind —
// per the "dynamic pattern dispatch" design note in spec.md §9, this is
// a tagged variant, not a class hierarchy.
//
// ICEPatternFile decoding (spec.md §6) is out of scope: callers supply
// an already-decoded Table. DefaultTable returns a small built-in
// library of classical first-ring Hex patterns sufficient to exercise
// the pipeline; ICE falls back to its graph-theoretic rules alone if
// given an empty Table (PatternFileMissing, spec.md §7).
package pattern

import "github.com/domino14/hexsolve/geometry"

// Kind is the closed set of pattern classes from spec.md §4.1.
type Kind uint8

const (
	Dead Kind = iota
	Captured
	PermInf
	Vulnerable
	Reversible
	Dominated
)

// ReqState is the required state of one neighbor slot, expressed
// relative to the pattern's own color parameter so a single pattern
// instantiates for both Black and White.
type ReqState uint8

const (
	ReqEmpty        ReqState = iota // must be empty
	ReqOwn                          // must be the pattern's color
	ReqOpp                          // must be the opponent's color
	ReqEmptyOrOwn                   // empty or pattern's color
	ReqNotEmpty                     // occupied by either color (or dead)
	ReqAny                          // unconstrained
)

const ringSize = 6

// Pattern is one compiled rule: a required color at each of the six
// first-ring neighbor slots (in a fixed cyclic order — see ring()),
// plus the extra data each Kind needs (killer slot for Vulnerable,
// carrier slots for everything but Dead).
type Pattern struct {
	Kind  Kind
	Color geometry.Color // the "c" parameter; unused (Empty) for Dead
	Slots [ringSize]ReqState

	KillerSlot  int   // ring slot of the killer, -1 if Kind != Vulnerable
	CarrierSlot []int // ring slots forming the carrier/reverser/dominator set
}

// Table is a decoded, compiled pattern set, grouped by kind for fast
// dispatch.
type Table struct {
	byKind map[Kind][]Pattern
}

// NewTable compiles a flat pattern list into a Table.
func NewTable(patterns []Pattern) *Table {
	t := &Table{byKind: make(map[Kind][]Pattern)}
	for _, p := range patterns {
		t.byKind[p.Kind] = append(t.byKind[p.Kind], p)
	}
	return t
}

func (t *Table) Empty() bool {
	return t == nil || len(t.byKind) == 0
}

func (t *Table) of(k Kind) []Pattern {
	if t == nil {
		return nil
	}
	return t.byKind[k]
}

// ColorAt abstracts the board lookup the matcher needs, so this package
// has no dependency on stoneboard (and can be unit tested with a plain
// map).
type ColorAt func(geometry.Point) geometry.Color

// ring returns the six first-ring neighbor points of p in a fixed
// cyclic order, substituting the appropriate edge sentinel when p sits
// on the border (a border cell is missing some of its six geometric
// neighbors; the pattern model treats the touching edge as filling
// that slot, the same way StoneBoard always colors edges).
func ring(geo *geometry.Board, p geometry.Point) [ringSize]geometry.Point {
	row, col := geometry.RowCol(p, geo.Width)
	// cyclic order: W, NW, NE, E, SE, SW
	deltas := [ringSize][2]int{
		{0, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 0}, {1, -1},
	}
	var out [ringSize]geometry.Point
	for i, d := range deltas {
		nr, nc := row+d[0], col+d[1]
		switch {
		case nr < 0:
			out[i] = geo.North
		case nr >= geo.Height:
			out[i] = geo.South
		case nc < 0:
			out[i] = geo.West
		case nc >= geo.Width:
			out[i] = geo.East
		default:
			out[i] = geometry.PointAt(nr, nc, geo.Width)
		}
	}
	return out
}

// rotateSlots returns slots rotated by k positions and optionally reflected,
// one of the 12 symmetries of the hex neighborhood, so a pattern author
// writes one canonical orientation and the matcher tries all of them.
func rotateSlots(slots [ringSize]ReqState, k int, reflect bool) [ringSize]ReqState {
	var out [ringSize]ReqState
	for i := 0; i < ringSize; i++ {
		src := i
		if reflect {
			src = (ringSize - i) % ringSize
		}
		out[i] = slots[(src+k)%ringSize]
	}
	return out
}

func rotateIndex(idx, k int, reflect bool) int {
	if idx < 0 {
		return idx
	}
	if reflect {
		idx = (ringSize - idx) % ringSize
		return (idx + k) % ringSize
	}
	// rotateSlots maps output slot i to pattern slot (i+k)%6, so the
	// inverse — the ring position a given pattern slot lands on — is
	// (idx-k)%6.
	return ((idx-k)%ringSize + ringSize) % ringSize
}

func matchSlot(req ReqState, actual, own, opp geometry.Color) bool {
	switch req {
	case ReqEmpty:
		return actual == geometry.Empty
	case ReqOwn:
		return actual == own
	case ReqOpp:
		return actual == opp
	case ReqEmptyOrOwn:
		return actual == geometry.Empty || actual == own
	case ReqNotEmpty:
		return actual != geometry.Empty
	default:
		return true
	}
}

// MatchResult carries the instantiated carrier/killer cells of a hit,
// expressed as actual board points rather than abstract ring slots.
type MatchResult struct {
	Pattern *Pattern
	Killer  geometry.Point // InvalidPoint unless Kind == Vulnerable
	Carrier geometry.Bitset
}

// Match tries every pattern of kind k (for the given color parameter
// when the kind needs one) against cell p, trying all 12 ring
// symmetries per pattern. If collectAll is false, it returns after the
// first hit (spec.md §4.1: "Pattern matching at a cell stops at the
// first hit unless the engine is configured to collect all").
func Match(geo *geometry.Board, colorAt ColorAt, t *Table, k Kind, color geometry.Color, p geometry.Point, collectAll bool) []MatchResult {
	pats := t.of(k)
	if len(pats) == 0 {
		return nil
	}
	nbrRing := ring(geo, p)
	var actual [ringSize]geometry.Color
	for i, n := range nbrRing {
		actual[i] = colorAt(n)
	}

	var hits []MatchResult
	for pi := range pats {
		pat := &pats[pi]
		if k != Dead && pat.Color != color {
			continue
		}
		own, opp := pat.Color, geometry.Empty
		if pat.Color.IsPlayer() {
			opp = pat.Color.Opposite()
		}
		for refl := 0; refl < 2; refl++ {
			for rot := 0; rot < ringSize; rot++ {
				slots := rotateSlots(pat.Slots, rot, refl == 1)
				ok := true
				for i := 0; i < ringSize; i++ {
					if !matchSlot(slots[i], actual[i], own, opp) {
						ok = false
						break
					}
				}
				if !ok {
					continue
				}
				res := MatchResult{Pattern: pat, Killer: geometry.InvalidPoint}
				if pat.KillerSlot >= 0 {
					ks := rotateIndex(pat.KillerSlot, rot, refl == 1)
					res.Killer = nbrRing[ks]
				}
				carrier := geometry.NewBitset(geo.NumPoints)
				for _, cs := range pat.CarrierSlot {
					s := rotateIndex(cs, rot, refl == 1)
					carrier.Set(nbrRing[s])
				}
				res.Carrier = carrier
				hits = append(hits, res)
				if !collectAll {
					return hits
				}
			}
		}
	}
	return hits
}
