package room

import "github.com/KirkDiggler/roomserver/internal/entities"

const (
	// DefaultRows is used when a room does not declare its own row count.
	DefaultRows = 12

	// Rows alternate between a long and a short width, so odd rows sit
	// offset between the tiles of the rows around them.
	EvenRowWidth = 11
	OddRowWidth  = 10
)

// Grid describes the bounds of a room. Bounds are a function of the row
// index only; nothing is stored per tile.
type Grid struct {
	Rows int
}

// NewGrid returns a grid with rows rows, or DefaultRows when rows <= 0.
func NewGrid(rows int) Grid {
	if rows <= 0 {
		rows = DefaultRows
	}
	return Grid{Rows: rows}
}

// RowWidth returns the number of tiles in row y, 0 outside the grid.
func (g Grid) RowWidth(y int) int {
	if y < 0 || y >= g.Rows {
		return 0
	}
	if y%2 == 0 {
		return EvenRowWidth
	}
	return OddRowWidth
}

// InBounds reports whether p is a tile of the grid.
func (g Grid) InBounds(p entities.Position) bool {
	return p.X >= 0 && p.X < g.RowWidth(p.Y)
}

// Walk visits every tile in row-major order until fn returns false.
func (g Grid) Walk(fn func(entities.Position) bool) {
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.RowWidth(y); x++ {
			if !fn(entities.Position{X: x, Y: y}) {
				return
			}
		}
	}
}
