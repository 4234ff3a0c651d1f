package geometry

import "fmt"

// Point is a dense index identifying either an interior cell or one of
// the four edge sentinels. Interior cells are numbered row-major,
// 0 .. width*height-1; the edges follow immediately after.
type Point int32

const InvalidPoint Point = -1

// Edge sentinels, always allocated directly after the interior cells of
// a board. North/South belong to Black, East/West belong to White.
const (
	edgeOffsetNorth = 0
	edgeOffsetSouth = 1
	edgeOffsetEast  = 2
	edgeOffsetWest  = 3
	numEdges        = 4
)

func (p Point) String() string {
	return fmt.Sprintf("cell(%d)", int(p))
}

// RowCol decomposes an interior point into (row, col) given a board width.
// Behavior is undefined for edge sentinels.
func RowCol(p Point, width int) (row, col int) {
	row = int(p) / width
	col = int(p) % width
	return
}

// PointAt returns the interior point for (row, col) on a board of the
// given width.
func PointAt(row, col, width int) Point {
	return Point(row*width + col)
}

// ParseCoord parses a coordinate of the form "<col-letter><row-number>"
// (e.g. "a1", "f12") into a (row, col) pair, 0-indexed.
func ParseCoord(s string) (row, col int, err error) {
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("geometry: coordinate %q too short", s)
	}
	letter := s[0]
	if letter < 'a' || letter > 'z' {
		return 0, 0, fmt.Errorf("geometry: coordinate %q has invalid column", s)
	}
	col = int(letter - 'a')
	rowNum := 0
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return 0, 0, fmt.Errorf("geometry: coordinate %q has invalid row", s)
		}
		rowNum = rowNum*10 + int(c-'0')
	}
	if rowNum < 1 {
		return 0, 0, fmt.Errorf("geometry: coordinate %q has invalid row", s)
	}
	return rowNum - 1, col, nil
}

// FormatCoord is the inverse of ParseCoord.
func FormatCoord(row, col int) string {
	return fmt.Sprintf("%c%d", byte('a'+col), row+1)
}
