package ttable

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/domino14/hexsolve/geometry"
)

func discardLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestStoreThenLookupRoundTrips(t *testing.T) {
	tbl := New(0.0001, discardLogger())
	hash := uint64(0xABCDEF1234567890)
	proof := geometry.NewBitset(16)
	proof.Set(geometry.Point(3))

	tbl.Store(hash, Win, 5, geometry.Point(7), proof)
	e, ok := tbl.Lookup(hash)
	require.True(t, ok)
	require.Equal(t, Win, e.Result())
	require.Equal(t, uint8(5), e.Depth())
	require.Equal(t, geometry.Point(7), e.BestMove())
	require.True(t, e.Proof().Test(geometry.Point(3)))
}

func TestLookupMissReturnsNotOk(t *testing.T) {
	tbl := New(0.0001, discardLogger())
	_, ok := tbl.Lookup(0x1)
	require.False(t, ok)
}

func TestCapacityHasPowerOfTwoFloor(t *testing.T) {
	tbl := New(0.0000000001, discardLogger())
	require.GreaterOrEqual(t, tbl.Capacity(), 1<<24)
}

func TestStoreOverwritesPreviousEntryAtSameSlot(t *testing.T) {
	tbl := New(0.0001, discardLogger())
	mask := tbl.sizeMask
	hashA := uint64(0)
	hashB := mask + 1 // shares the same low bits as hashA, differs above the mask

	tbl.Store(hashA, Win, 1, geometry.Point(1), geometry.NewBitset(4))
	tbl.Store(hashB, Loss, 2, geometry.Point(2), geometry.NewBitset(4))

	_, ok := tbl.Lookup(hashA)
	require.False(t, ok)
	e, ok := tbl.Lookup(hashB)
	require.True(t, ok)
	require.Equal(t, Loss, e.Result())
}
