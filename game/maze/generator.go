// Package maze carves perfect mazes into a grid using randomized iterative
// depth-first search on odd coordinates.
package maze

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/wricardo/mcp-training/pathfinder/game/grid"
)

var ErrInvalidStart = errors.New("invalid carving start")

// carve offsets, two cells away
var carveSteps = []grid.Direction{
	{DX: 2, DY: 0, Name: "right"},
	{DX: -2, DY: 0, Name: "left"},
	{DX: 0, DY: 2, Name: "down"},
	{DX: 0, DY: -2, Name: "up"},
}

// exitOrder is the neighbour preference used when connecting exits
var exitOrder = []grid.Direction{grid.Down, grid.Up, grid.Right, grid.Left}

// Generate returns a width x height grid of Wall with a perfect maze carved
// from start. Every Open cell is reachable from start.
func Generate(width, height int, start grid.Cell, rng *rand.Rand) (*grid.Grid, error) {
	g, err := grid.New(width, height, grid.Wall)
	if err != nil {
		return nil, err
	}

	if !inside(g, start) {
		return nil, fmt.Errorf("%w: %s must lie strictly inside a %dx%d border", ErrInvalidStart, start, width, height)
	}

	g.Set(start, grid.Open)
	stack := []grid.Cell{start}
	candidates := make([]grid.Cell, 0, len(carveSteps))

	for len(stack) > 0 {
		current := stack[len(stack)-1]

		candidates = candidates[:0]
		for _, d := range carveSteps {
			next := current.Add(d)
			if !inside(g, next) {
				continue
			}
			if t, _ := g.TerrainAt(next); t == grid.Wall {
				candidates = append(candidates, next)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		next := candidates[rng.Intn(len(candidates))]
		g.Set(grid.Cell{X: (current.X + next.X) / 2, Y: (current.Y + next.Y) / 2}, grid.Open)
		g.Set(next, grid.Open)
		stack = append(stack, next)
	}

	return g, nil
}

// ConnectExits opens each Wall exit that touches an Open cell, preferring
// the neighbour below, then above, right and left. Exits that cannot be
// connected stay Wall. It returns the exits that are Open afterwards.
func ConnectExits(g *grid.Grid, exits []grid.Cell) []grid.Cell {
	var connected []grid.Cell
	for _, exit := range exits {
		t, err := g.TerrainAt(exit)
		if err != nil {
			continue
		}
		if t == grid.Open {
			connected = append(connected, exit)
			continue
		}
		if t != grid.Wall {
			continue
		}
		for _, n := range g.Neighbors(exit, exitOrder) {
			if nt, _ := g.TerrainAt(n); nt == grid.Open {
				g.Set(exit, grid.Open)
				connected = append(connected, exit)
				break
			}
		}
	}
	return connected
}

// inside reports whether c lies strictly inside the outer border
func inside(g *grid.Grid, c grid.Cell) bool {
	return c.X > 0 && c.X < g.Width()-1 && c.Y > 0 && c.Y < g.Height()-1
}
