package grid

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOutOfBounds       = errors.New("cell out of bounds")
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	ErrInvalidLayout     = errors.New("invalid layout")
)

// Grid is a fixed-size rectangle of terrain codes
type Grid struct {
	width  int
	height int
	cells  []Terrain
}

// New creates a width x height grid filled with the given terrain
func New(width, height int, fill Terrain) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	cells := make([]Terrain, width*height)
	for i := range cells {
		cells[i] = fill
	}

	return &Grid{
		width:  width,
		height: height,
		cells:  cells,
	}, nil
}

// Parse builds a grid from layout rows using the terrain characters
func Parse(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: 0 rows", ErrInvalidDimensions)
	}

	g, err := New(len(rows[0]), len(rows), Road)
	if err != nil {
		return nil, err
	}

	for y, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("%w: row %d has %d characters, expected %d", ErrInvalidLayout, y+1, len(row), g.width)
		}
		for x := 0; x < len(row); x++ {
			t, ok := ParseTerrainChar(row[x])
			if !ok {
				return nil, fmt.Errorf("%w: invalid character '%c' at row %d, col %d", ErrInvalidLayout, row[x], y+1, x+1)
			}
			g.cells[y*g.width+x] = t
		}
	}

	return g, nil
}

// Width returns the number of columns
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows
func (g *Grid) Height() int {
	return g.height
}

// InBounds reports whether the cell lies inside the grid
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// TerrainAt returns the terrain code of a cell
func (g *Grid) TerrainAt(c Cell) (Terrain, error) {
	if !g.InBounds(c) {
		return 0, fmt.Errorf("%w: %s in %dx%d grid", ErrOutOfBounds, c, g.width, g.height)
	}
	return g.cells[c.Y*g.width+c.X], nil
}

// Set overwrites the terrain of a single cell
func (g *Grid) Set(c Cell, t Terrain) error {
	if !g.InBounds(c) {
		return fmt.Errorf("%w: %s in %dx%d grid", ErrOutOfBounds, c, g.width, g.height)
	}
	g.cells[c.Y*g.width+c.X] = t
	return nil
}

// IsPassable reports whether search may enter the cell. Out-of-bounds cells are never passable.
func (g *Grid) IsPassable(c Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	return g.cells[c.Y*g.width+c.X].Passable()
}

// FillRectangle sets every cell in [x1,x2) x [y1,y2) to t, silently clipping to the grid
func (g *Grid) FillRectangle(x1, y1, x2, y2 int, t Terrain) {
	for y := max(y1, 0); y < min(y2, g.height); y++ {
		for x := max(x1, 0); x < min(x2, g.width); x++ {
			g.cells[y*g.width+x] = t
		}
	}
}

// Neighbors returns the in-bounds orthogonal neighbours of c in the given order
func (g *Grid) Neighbors(c Cell, order []Direction) []Cell {
	result := make([]Cell, 0, len(order))
	for _, d := range order {
		n := c.Add(d)
		if g.InBounds(n) {
			result = append(result, n)
		}
	}
	return result
}

// Rows renders the grid as layout strings
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		b.Reset()
		for x := 0; x < g.width; x++ {
			b.WriteByte(g.cells[y*g.width+x].Char())
		}
		rows[y] = b.String()
	}
	return rows
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	cells := make([]Terrain, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// Cells returns every cell holding the given terrain, row by row
func (g *Grid) Cells(t Terrain) []Cell {
	var result []Cell
	for i, v := range g.cells {
		if v == t {
			result = append(result, Cell{X: i % g.width, Y: i / g.width})
		}
	}
	return result
}
