package grid

import (
	"fmt"
	"math/rand"
)

// Block is a named building rectangle, half-open on its far edges
type Block struct {
	Kind  Terrain `json:"kind"`
	Label string  `json:"label,omitempty"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
}

// CityLayout describes how a procedural city is generated
type CityLayout struct {
	Width       int
	Height      int
	RoadColumns int // every Nth column is road
	RoadRows    int // every Nth row is road
	Blocks      []Block
	Obstacles   int
	Reserved    []Cell // never receive an obstacle
}

// DefaultCityLayout places houses top-left, a school bottom-left, a hospital
// top-right and a park in the centre of a width x height city.
func DefaultCityLayout(width, height int) CityLayout {
	return CityLayout{
		Width:       width,
		Height:      height,
		RoadColumns: 4,
		RoadRows:    5,
		Blocks: []Block{
			{Kind: House, Label: "HOUSE", X1: 2, Y1: 2, X2: 8, Y2: 8},
			{Kind: School, Label: "SCHOOL", X1: 2, Y1: height - 10, X2: 10, Y2: height - 3},
			{Kind: Hospital, Label: "HOSPITAL", X1: width - 10, Y1: 3, X2: width - 3, Y2: 10},
			{Kind: Park, Label: "PARK", X1: width/2 - 5, Y1: height/2 - 3, X2: width/2 + 5, Y2: height/2 + 3},
		},
		Obstacles: 30,
		Reserved:  []Cell{{X: 1, Y: 1}},
	}
}

// NewCity builds the road lattice, overlays the blocks and scatters obstacles
func NewCity(layout CityLayout, rng *rand.Rand) (*Grid, error) {
	g, err := New(layout.Width, layout.Height, Building)
	if err != nil {
		return nil, err
	}

	cols, rows := layout.RoadColumns, layout.RoadRows
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: road spacing must be positive, got %d/%d", ErrInvalidLayout, cols, rows)
	}

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if x%cols == 0 || y%rows == 0 {
				g.cells[y*g.width+x] = Road
			}
		}
	}

	for _, b := range layout.Blocks {
		if !b.Kind.IsBuilding() {
			return nil, fmt.Errorf("%w: block %q has non-building kind %s", ErrInvalidLayout, b.Label, b.Kind)
		}
		g.FillRectangle(b.X1, b.Y1, b.X2, b.Y2, b.Kind)
	}

	g.ScatterObstacles(layout.Obstacles, rng, layout.Reserved...)
	return g, nil
}

// ScatterObstacles turns up to count random Road cells into Obstacle cells.
// Draws landing on non-road or reserved cells are skipped; the number of
// draws is bounded so a nearly full grid cannot spin forever. It returns the
// number of obstacles actually placed.
func (g *Grid) ScatterObstacles(count int, rng *rand.Rand, reserved ...Cell) int {
	if count <= 0 {
		return 0
	}

	placed := 0
	for attempts := count * MaxObstacleAttemptsFactor; attempts > 0 && placed < count; attempts-- {
		c := Cell{X: rng.Intn(g.width), Y: rng.Intn(g.height)}
		if isReserved(c, reserved) {
			continue
		}
		idx := c.Y*g.width + c.X
		if g.cells[idx] != Road {
			continue
		}
		g.cells[idx] = Obstacle
		placed++
	}
	return placed
}

func isReserved(c Cell, reserved []Cell) bool {
	for _, r := range reserved {
		if r == c {
			return true
		}
	}
	return false
}
