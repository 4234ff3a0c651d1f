// Package ttable implements the direct-mapped transposition table of
// spec.md §4.3, ported from the teacher's
// endgame/negamax.TranspositionTable: a fixed power-of-two array keyed
// by the low bits of the Zobrist hash, with the remaining high bits
// stored per entry to detect "type 2" collisions (two different
// positions landing in the same slot), and Reset sized from a fraction
// of system memory via github.com/pbnjay/memory.
package ttable

import (
	"math"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog"

	"github.com/domino14/hexsolve/geometry"
)

// Result mirrors spec.md §4.4's solver outcome, plus Unknown for a
// search that was cut off by a depth or time bound before resolving.
type Result uint8

const (
	Unknown Result = iota
	Win
	Loss
)

const entrySize = 24 // top4bytes(4) + fifthbyte(1) + flagAndDepth(1) + move(4) + pad(2) + proof pointer(8), rounded

const bottom3ByteMask = (1 << 24) - 1
const depthMask = (1 << 6) - 1

// Entry is one stored position's solved result. Proof is a witness
// bitset (spec.md §5) kept as a pointer rather than packed inline,
// since unlike the teacher's fixed-width score/move, a Hex proof set's
// size depends on the board and shrinking either leaves extra bits set
// or doesn't.
type Entry struct {
	top4bytes    uint32
	fifthbyte    uint8
	flagAndDepth uint8
	bestMove     geometry.Point
	proof        geometry.Bitset
}

// NewEntry builds a detached Entry from its logical fields, without the
// hash-derived collision-detection bytes a Table slot carries — used by
// posdb when reconstructing a row it persisted, where the caller
// already has the hash externally and doesn't need fullHash().
func NewEntry(result Result, depth uint8, bestMove geometry.Point, proof geometry.Bitset) Entry {
	return Entry{
		flagAndDepth: uint8(result)<<6 | (depth & depthMask),
		bestMove:     bestMove,
		proof:        proof,
	}
}

func (e Entry) fullHash(idx uint64) uint64 {
	return uint64(e.top4bytes)<<32 + uint64(e.fifthbyte)<<24 + (idx & bottom3ByteMask)
}

func (e Entry) result() Result { return Result(e.flagAndDepth >> 6) }
func (e Entry) depth() uint8   { return e.flagAndDepth & depthMask }
func (e Entry) valid() bool    { return e.result() != Unknown }

// BestMove returns the stored best reply, or InvalidPoint if none was
// recorded (a Loss entry has none — every reply loses).
func (e Entry) BestMove() geometry.Point { return e.bestMove }
func (e Entry) Proof() geometry.Bitset   { return e.proof }
func (e Entry) Result() Result           { return e.result() }
func (e Entry) Depth() uint8             { return e.depth() }

// Table is a fixed-size, single-process-shared, direct-mapped
// transposition table. Unlike the teacher's, solving is single-threaded
// (spec.md's Non-goals exclude parallel search), so no lock is needed —
// GlobalTranspositionTable's FakeLock/real-lock split has no reason to
// exist here.
type Table struct {
	entries      []Entry
	sizePowerOf2 int
	sizeMask     uint64

	lookups      atomic.Uint64
	hits         atomic.Uint64
	t2collisions atomic.Uint64
}

// New allocates a table sized to hold roughly fractionOfMemory of total
// system RAM, rounded down to a power of two, with a floor of 2^24
// entries — fullHash reconstructs the bottom 24 bits of a stored key
// from the slot index itself, so the index must be at least 24 bits
// wide or those bits are silently lost. Same floor and reason as the
// teacher's transposition table.
func New(fractionOfMemory float64, logger zerolog.Logger) *Table {
	t := &Table{}
	t.Reset(fractionOfMemory, logger)
	return t
}

func (t *Table) Reset(fractionOfMemory float64, logger zerolog.Logger) {
	totalMem := memory.TotalMemory()
	desired := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	t.sizePowerOf2 = int(math.Log2(desired))
	if t.sizePowerOf2 < 24 {
		t.sizePowerOf2 = 24
	}
	numElems := 1 << t.sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	t.entries = make([]Entry, numElems)

	logger.Info().
		Int("num-elems", numElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition table sized")

	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
}

// Lookup returns the stored entry for hash and whether it was a hit
// (found and not a type-2 collision). An empty slot is always a miss.
func (t *Table) Lookup(hash uint64) (Entry, bool) {
	t.lookups.Add(1)
	idx := hash & t.sizeMask
	e := t.entries[idx]
	if !e.valid() || e.fullHash(idx) != hash {
		if e.valid() {
			t.t2collisions.Add(1)
		}
		return Entry{}, false
	}
	t.hits.Add(1)
	return e, true
}

// Store writes an entry, replacing whatever was in that slot (spec.md
// §4.3's "replace-on-write, no aging/depth-preferred replacement").
func (t *Table) Store(hash uint64, result Result, depth uint8, bestMove geometry.Point, proof geometry.Bitset) {
	idx := hash & t.sizeMask
	t.entries[idx] = Entry{
		top4bytes:    uint32(hash >> 32),
		fifthbyte:    uint8(hash >> 24),
		flagAndDepth: uint8(result)<<6 | (depth & depthMask),
		bestMove:     bestMove,
		proof:        proof,
	}
}

func (t *Table) Lookups() uint64      { return t.lookups.Load() }
func (t *Table) Hits() uint64         { return t.hits.Load() }
func (t *Table) Collisions() uint64   { return t.t2collisions.Load() }
func (t *Table) Capacity() int        { return len(t.entries) }
