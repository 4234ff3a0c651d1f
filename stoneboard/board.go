// Package stoneboard implements the StoneBoard data model of spec.md §3:
// per-cell color, a Zobrist hash, and edge sentinels, independent of
// groups, patterns, or inferior-cell bookkeeping.
package stoneboard

import (
	"fmt"

	"github.com/domino14/hexsolve/geometry"
	"github.com/domino14/hexsolve/zobrist"
)

// Board is a StoneBoard: width x height plus four edges, each cell
// colored Black, White, Dead, or Empty, with an incremental Zobrist
// hash. Mirrors the teacher's board.GameBoard in spirit (a grid of
// per-cell state plus derived bitsets) but Hex cells carry only a
// color, not letters/bonuses/cross-sets.
type Board struct {
	Geo     *geometry.Board
	zobrist *zobrist.Hash

	black, white, dead geometry.Bitset
	hash               uint64
}

// New creates an empty StoneBoard for the given geometry, with edge
// sentinels always set to their owning color.
func New(geo *geometry.Board, zh *zobrist.Hash) *Board {
	b := &Board{
		Geo:     geo,
		zobrist: zh,
		black:   geometry.NewBitset(geo.NumPoints),
		white:   geometry.NewBitset(geo.NumPoints),
		dead:    geometry.NewBitset(geo.NumPoints),
	}
	b.black.Set(geo.North)
	b.black.Set(geo.South)
	b.white.Set(geo.East)
	b.white.Set(geo.West)
	b.hash = b.zobrist.Full(b.Color, geometry.Black)
	return b
}

// Clone deep-copies the board, used by HistoryFrame snapshots and by
// hypothetical boards built for proof shrinking / decomposition.
func (b *Board) Clone() *Board {
	return &Board{
		Geo:     b.Geo,
		zobrist: b.zobrist,
		black:   b.black.Clone(),
		white:   b.white.Clone(),
		dead:    b.dead.Clone(),
		hash:    b.hash,
	}
}

// CopyFrom overwrites b's cell state with copies of other's bitsets and
// its hash (used on undo to restore a saved frame in place).
func (b *Board) CopyFrom(other *Board) {
	b.black = other.black.Clone()
	b.white = other.white.Clone()
	b.dead = other.dead.Clone()
	b.hash = other.hash
}

func (b *Board) Hash() uint64 { return b.hash }

// Color returns the color occupying p: Black, White, Dead, or Empty.
func (b *Board) Color(p geometry.Point) geometry.Color {
	if b.black.Test(p) {
		return geometry.Black
	}
	if b.white.Test(p) {
		return geometry.White
	}
	if b.dead.Test(p) {
		return geometry.Dead
	}
	return geometry.Empty
}

func (b *Board) IsEmpty(p geometry.Point) bool {
	return b.Color(p) == geometry.Empty
}

// Black, White, Dead return the bitsets of cells held by that color.
func (b *Board) Black() geometry.Bitset { return b.black }
func (b *Board) White() geometry.Bitset { return b.white }
func (b *Board) Dead() geometry.Bitset  { return b.dead }

// Empty returns the derived bitset of unoccupied interior cells. Edge
// sentinels are never empty, so this is computed over AllPoints minus
// the three occupied sets.
func (b *Board) Empty() geometry.Bitset {
	e := b.Geo.AllPoints()
	e.Subtract(b.black)
	e.Subtract(b.white)
	e.Subtract(b.dead)
	return e
}

// ColorBitset returns the bitset owning color c. Panics for Empty.
func (b *Board) ColorBitset(c geometry.Color) geometry.Bitset {
	switch c {
	case geometry.Black:
		return b.black
	case geometry.White:
		return b.white
	case geometry.Dead:
		return b.dead
	default:
		panic("stoneboard: ColorBitset called with Empty")
	}
}

// PlaceStone occupies an empty cell with color c, updating the hash.
// It is an error to place on a non-empty cell.
func (b *Board) PlaceStone(p geometry.Point, c geometry.Color) error {
	if !b.IsEmpty(p) {
		return fmt.Errorf("stoneboard: cell %v is not empty (has %v)", p, b.Color(p))
	}
	b.setBitForColor(p, c)
	b.hash = b.zobrist.TogglePoint(b.hash, p, c)
	return nil
}

// RemoveStone clears a previously placed stone, restoring the cell to
// Empty and undoing its hash contribution. No-op if p is already empty.
func (b *Board) RemoveStone(p geometry.Point) {
	c := b.Color(p)
	if c == geometry.Empty {
		return
	}
	b.clearBitForColor(p, c)
	b.hash = b.zobrist.TogglePoint(b.hash, p, c)
}

func (b *Board) setBitForColor(p geometry.Point, c geometry.Color) {
	switch c {
	case geometry.Black:
		b.black.Set(p)
	case geometry.White:
		b.white.Set(p)
	case geometry.Dead:
		b.dead.Set(p)
	default:
		panic("stoneboard: setBitForColor with Empty")
	}
}

func (b *Board) clearBitForColor(p geometry.Point, c geometry.Color) {
	switch c {
	case geometry.Black:
		b.black.Clear(p)
	case geometry.White:
		b.white.Clear(p)
	case geometry.Dead:
		b.dead.Clear(p)
	}
}

// ToggleToMove flips the side-to-move component of the hash. New starts
// the hash with Black to move, and hexboard.PlayMove toggles it on every
// move, so the keys the solver stores reflect whose turn it is as well
// as the stone layout.
func (b *Board) ToggleToMove() {
	b.hash = b.zobrist.ToggleToMove(b.hash)
}
