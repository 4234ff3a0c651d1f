// Package zobrist provides an incremental 64-bit Zobrist hash over
// (cell, color) pairs, used to key the transposition table and
// position database.
package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/hexsolve/geometry"
)

const bignum = 1<<63 - 2

// Hash generates and incrementally maintains a Zobrist hash for a Hex
// position, the way the teacher's zobrist.Zobrist does for a crossword
// board, but keyed on (cell, color) instead of (cell, letter).
type Hash struct {
	table     [][4]uint64 // per-point, per-color; Empty's slot is unused
	blackMove uint64
	numPoints int
}

// Initialize allocates and randomizes the hash tables for a board with
// numPoints total cells (interior points plus edge sentinels).
func (h *Hash) Initialize(numPoints int) {
	h.numPoints = numPoints
	h.table = make([][4]uint64, numPoints)
	for i := 0; i < numPoints; i++ {
		for c := geometry.Black; c <= geometry.Dead; c++ {
			h.table[i][c] = frand.Uint64n(bignum) + 1
		}
	}
	h.blackMove = frand.Uint64n(bignum) + 1
}

func (h *Hash) NumPoints() int { return h.numPoints }

// Full computes the hash of a position from scratch.
func (h *Hash) Full(colorAt func(geometry.Point) geometry.Color, toMove geometry.Color) uint64 {
	var key uint64
	for i := 0; i < h.numPoints; i++ {
		c := colorAt(geometry.Point(i))
		if c == geometry.Empty {
			continue
		}
		key ^= h.table[i][c]
	}
	if toMove == geometry.Black {
		key ^= h.blackMove
	}
	return key
}

// TogglePoint XORs in (or, applied twice, back out) the hash
// contribution of cell p holding color c.
func (h *Hash) TogglePoint(key uint64, p geometry.Point, c geometry.Color) uint64 {
	return key ^ h.table[int(p)][c]
}

// ToggleToMove flips the side-to-move bit.
func (h *Hash) ToggleToMove(key uint64) uint64 {
	return key ^ h.blackMove
}
