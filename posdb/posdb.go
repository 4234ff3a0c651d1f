// Package posdb implements the persistent position database of
// spec.md §4.3/§6: an append-only on-disk store of solved positions,
// keyed by Zobrist hash, that survives process restarts the way the
// in-memory ttable.Table does not.
//
// Grounded on the teacher's go.mod direct dependency on
// modernc.org/sqlite (a pure-Go sqlite3 driver, avoiding a cgo
// toolchain requirement) and on the loader shape of its cache package
// (load-on-miss, store-on-compute) generalized from an in-memory map to
// a real backing store.
package posdb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/domino14/hexsolve/geometry"
	"github.com/domino14/hexsolve/ttable"
)

const schema = `
CREATE TABLE IF NOT EXISTS positions (
	hash       INTEGER PRIMARY KEY,
	result     INTEGER NOT NULL,
	depth      INTEGER NOT NULL,
	best_move  INTEGER NOT NULL,
	proof      BLOB NOT NULL
);
`

// DB wraps a sqlite-backed table of solved positions. It is safe for
// concurrent reads; writes are serialized by sqlite itself.
type DB struct {
	conn *sql.DB
}

// Open creates or attaches to a position database at path. Passing
// ":memory:" is useful for tests and for short-lived solves that never
// need to persist.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("posdb: open %q: %w", path, err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("posdb: migrate: %w", err)
	}
	return &DB{conn: conn}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// Get looks up hash, returning ok=false if it isn't present.
func (db *DB) Get(hash uint64) (ttable.Entry, bool, error) {
	row := db.conn.QueryRow(
		`SELECT result, depth, best_move, proof FROM positions WHERE hash = ?`,
		int64(hash),
	)
	var result, depth, bestMove int64
	var proofBytes []byte
	if err := row.Scan(&result, &depth, &bestMove, &proofBytes); err != nil {
		if err == sql.ErrNoRows {
			return ttable.Entry{}, false, nil
		}
		return ttable.Entry{}, false, fmt.Errorf("posdb: get: %w", err)
	}
	proof := decodeProof(proofBytes)
	return buildEntry(ttable.Result(result), uint8(depth), geometry.Point(bestMove), proof), true, nil
}

// Put appends (or replaces, on a hash collision that truly is the same
// position re-solved) one solved position — spec.md §6's append-only
// binary layout, realized as sqlite rows rather than a flat file, since
// compaction then falls out of VACUUM instead of a hand-rolled rewrite
// pass.
func (db *DB) Put(hash uint64, result ttable.Result, depth uint8, bestMove geometry.Point, proof geometry.Bitset) error {
	_, err := db.conn.Exec(
		`INSERT INTO positions (hash, result, depth, best_move, proof) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET result=excluded.result, depth=excluded.depth,
		   best_move=excluded.best_move, proof=excluded.proof`,
		int64(hash), int64(result), int64(depth), int64(bestMove), encodeProof(proof),
	)
	if err != nil {
		return fmt.Errorf("posdb: put: %w", err)
	}
	return nil
}

// Compact reclaims space from overwritten rows (spec.md §6's
// compaction step), delegated straight to sqlite's VACUUM.
func (db *DB) Compact() error {
	if _, err := db.conn.Exec(`VACUUM`); err != nil {
		return fmt.Errorf("posdb: compact: %w", err)
	}
	return nil
}

// Count returns the number of stored positions.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM positions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("posdb: count: %w", err)
	}
	return n, nil
}

func encodeProof(b geometry.Bitset) []byte {
	pts := b.Points()
	out := make([]byte, 4*len(pts))
	for i, p := range pts {
		v := uint32(p)
		out[4*i] = byte(v)
		out[4*i+1] = byte(v >> 8)
		out[4*i+2] = byte(v >> 16)
		out[4*i+3] = byte(v >> 24)
	}
	return out
}

func decodeProof(data []byte) []geometry.Point {
	n := len(data) / 4
	pts := make([]geometry.Point, n)
	for i := 0; i < n; i++ {
		v := uint32(data[4*i]) | uint32(data[4*i+1])<<8 | uint32(data[4*i+2])<<16 | uint32(data[4*i+3])<<24
		pts[i] = geometry.Point(v)
	}
	return pts
}

// buildEntry re-derives a full ttable.Entry from the pieces a
// sqlite row carries, sizing the bitset to one past the highest point
// present (proof cells or best move) (any caller that cares about exact
// capacity should rebuild the proof against its own geometry.Board
// instead of trusting this approximation for anything but display).
func buildEntry(result ttable.Result, depth uint8, bestMove geometry.Point, proofPoints []geometry.Point) ttable.Entry {
	capacity := int(bestMove) + 1
	for _, p := range proofPoints {
		if int(p)+1 > capacity {
			capacity = int(p) + 1
		}
	}
	if capacity < 1 {
		capacity = 1
	}
	proof := geometry.NewBitset(capacity)
	for _, p := range proofPoints {
		proof.Set(p)
	}
	return ttable.NewEntry(result, depth, bestMove, proof)
}
