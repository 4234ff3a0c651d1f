package pattern

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domino14/hexsolve/geometry"
)

func TestMatchCapturedWhenFullyEncircled(t *testing.T) {
	geo := geometry.NewBoard(5, 5)
	table := DefaultTable()
	center := geometry.PointAt(2, 2, 5)

	colors := map[geometry.Point]geometry.Color{}
	for _, n := range ring(geo, center) {
		colors[n] = geometry.Black
	}
	colorAt := func(p geometry.Point) geometry.Color {
		if c, ok := colors[p]; ok {
			return c
		}
		return geometry.Empty
	}

	hits := Match(geo, colorAt, table, Captured, geometry.Black, center, false)
	require.Len(t, hits, 1)

	// The same neighborhood never matches Captured for the other color.
	hits = Match(geo, colorAt, table, Captured, geometry.White, center, false)
	require.Empty(t, hits)
}

func TestMatchDeadWhenFullyOccupiedByMix(t *testing.T) {
	geo := geometry.NewBoard(5, 5)
	table := DefaultTable()
	center := geometry.PointAt(2, 2, 5)

	nbrs := ring(geo, center)
	colors := map[geometry.Point]geometry.Color{
		nbrs[0]: geometry.Black, nbrs[1]: geometry.White, nbrs[2]: geometry.Black,
		nbrs[3]: geometry.White, nbrs[4]: geometry.Black, nbrs[5]: geometry.White,
	}
	colorAt := func(p geometry.Point) geometry.Color {
		if c, ok := colors[p]; ok {
			return c
		}
		return geometry.Empty
	}

	hits := Match(geo, colorAt, table, Dead, geometry.Empty, center, false)
	require.Len(t, hits, 1)
}

func TestVulnerableReportsKillerAsActualCell(t *testing.T) {
	geo := geometry.NewBoard(5, 5)
	table := DefaultTable()
	center := geometry.PointAt(2, 2, 5)
	nbrs := ring(geo, center)

	colors := map[geometry.Point]geometry.Color{
		nbrs[0]: geometry.Black, nbrs[1]: geometry.Black, nbrs[2]: geometry.Black,
		nbrs[3]: geometry.Black, nbrs[4]: geometry.White,
	}
	colorAt := func(p geometry.Point) geometry.Color {
		if c, ok := colors[p]; ok {
			return c
		}
		return geometry.Empty
	}

	hits := Match(geo, colorAt, table, Vulnerable, geometry.Black, center, true)
	require.NotEmpty(t, hits)
	for _, h := range hits {
		require.True(t, colorAt(h.Killer) == geometry.Empty)
		require.NotEqual(t, geometry.InvalidPoint, h.Killer)
	}
}

// TestVulnerableKillerLandsOnCorrectSlotUnderRotation pins down
// rotateIndex's inverse mapping: the neighborhood below only matches
// the canonical Vulnerable(Black) pattern after rotating by 2 (not at
// rotation 0, where the naive four-in-a-row reading would apply), so a
// wrong inverse would report a killer slot that is occupied rather
// than the one genuinely empty neighbor.
func TestVulnerableKillerLandsOnCorrectSlotUnderRotation(t *testing.T) {
	geo := geometry.NewBoard(5, 5)
	table := DefaultTable()
	center := geometry.PointAt(2, 2, 5)
	nbrs := ring(geo, center)

	colors := map[geometry.Point]geometry.Color{
		nbrs[0]: geometry.Black, nbrs[1]: geometry.Black, nbrs[2]: geometry.White,
		nbrs[4]: geometry.Black, nbrs[5]: geometry.Black,
	}
	colorAt := func(p geometry.Point) geometry.Color {
		if c, ok := colors[p]; ok {
			return c
		}
		return geometry.Empty
	}

	hits := Match(geo, colorAt, table, Vulnerable, geometry.Black, center, true)
	require.NotEmpty(t, hits)
	for _, h := range hits {
		require.Equal(t, nbrs[3], h.Killer)
	}
}

func TestCollectAllVsFirstHit(t *testing.T) {
	geo := geometry.NewBoard(5, 5)
	table := DefaultTable()
	center := geometry.PointAt(2, 2, 5)
	colorAt := func(p geometry.Point) geometry.Color { return geometry.Black }

	first := Match(geo, colorAt, table, Captured, geometry.Black, center, false)
	all := Match(geo, colorAt, table, Captured, geometry.Black, center, true)
	require.Len(t, first, 1)
	require.GreaterOrEqual(t, len(all), len(first))
}
