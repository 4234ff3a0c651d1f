package hexcontrol

import (
	"fmt"
	"strings"

	"github.com/domino14/hexsolve/geometry"
)

// ParsePoint wraps geometry.ParseCoord with the board-bounds check that
// function deliberately leaves to its callers, and resolves the result
// to a geometry.Point.
func ParsePoint(s string, geo *geometry.Board) (geometry.Point, error) {
	row, col, err := geometry.ParseCoord(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return geometry.InvalidPoint, err
	}
	if col < 0 || col >= geo.Width || row < 0 || row >= geo.Height {
		return geometry.InvalidPoint, fmt.Errorf("hexcontrol: point %q out of bounds for %dx%d board", s, geo.Width, geo.Height)
	}
	return geometry.PointAt(row, col, geo.Width), nil
}

// FormatPoint is the inverse of ParsePoint. Edge sentinels render as
// their cardinal direction name since geometry.FormatCoord has no
// notion of them.
func FormatPoint(p geometry.Point, geo *geometry.Board) string {
	switch p {
	case geo.North:
		return "north"
	case geo.South:
		return "south"
	case geo.East:
		return "east"
	case geo.West:
		return "west"
	}
	row, col := geometry.RowCol(p, geo.Width)
	return geometry.FormatCoord(row, col)
}
