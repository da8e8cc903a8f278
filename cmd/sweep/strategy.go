package main

import (
	"log"

	"github.com/wricardo/mcp-training/pathfinder/game/engine"
	"github.com/wricardo/mcp-training/pathfinder/game/grid"
)

// SweepStrategy plans the tour before any goal is sent. In a maze it visits
// every exit; in a city it visits the road cell closest to each landmark and
// to each corner of the map.
type SweepStrategy struct {
	width    int
	height   int
	passable map[grid.Cell]bool

	order []grid.Cell
	index int
}

func NewSweepStrategy(snap *engine.Snapshot) *SweepStrategy {
	s := &SweepStrategy{
		width:    snap.Width,
		height:   snap.Height,
		passable: make(map[grid.Cell]bool),
	}

	for y, row := range snap.Rows {
		for x := 0; x < len(row); x++ {
			if t, ok := grid.ParseTerrainChar(row[x]); ok && t.Passable() {
				s.passable[grid.Cell{X: x, Y: y}] = true
			}
		}
	}

	var anchors []grid.Cell
	for _, m := range snap.Markers {
		switch m.Kind {
		case engine.MarkerExit, engine.MarkerBuilding:
			anchors = append(anchors, m.Cell)
		}
	}
	if snap.World != engine.WorldMaze {
		anchors = append(anchors,
			grid.Cell{X: 0, Y: 0},
			grid.Cell{X: s.width - 1, Y: 0},
			grid.Cell{X: 0, Y: s.height - 1},
			grid.Cell{X: s.width - 1, Y: s.height - 1},
		)
	}

	seen := make(map[grid.Cell]bool)
	var targets []grid.Cell
	for _, a := range anchors {
		c, ok := s.nearestPassable(a)
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		targets = append(targets, c)
	}

	s.order = planOrder(snap.Agent.Cell, targets)
	log.Printf("Sweep strategy: %d targets from %d anchors", len(s.order), len(anchors))
	return s
}

// nearestPassable searches outward in Manhattan rings around c
func (s *SweepStrategy) nearestPassable(c grid.Cell) (grid.Cell, bool) {
	if s.passable[c] {
		return c, true
	}
	for r := 1; r < s.width+s.height; r++ {
		for dx := -r; dx <= r; dx++ {
			dy := r - abs(dx)
			for _, cand := range []grid.Cell{{X: c.X + dx, Y: c.Y + dy}, {X: c.X + dx, Y: c.Y - dy}} {
				if s.passable[cand] {
					return cand, true
				}
			}
		}
	}
	return grid.Cell{}, false
}

// planOrder builds a nearest-neighbour tour from start by Manhattan distance.
// Ties keep the earlier target.
func planOrder(start grid.Cell, targets []grid.Cell) []grid.Cell {
	remaining := append([]grid.Cell(nil), targets...)
	order := make([]grid.Cell, 0, len(targets))
	current := start

	for len(remaining) > 0 {
		best := 0
		bestDist := grid.ManhattanDistance(current, remaining[0])
		for i := 1; i < len(remaining); i++ {
			if d := grid.ManhattanDistance(current, remaining[i]); d < bestDist {
				best, bestDist = i, d
			}
		}
		current = remaining[best]
		order = append(order, current)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return order
}

// Next returns the next planned target
func (s *SweepStrategy) Next() (grid.Cell, bool) {
	if s.index >= len(s.order) {
		return grid.Cell{}, false
	}
	c := s.order[s.index]
	s.index++
	return c, true
}

// Limit truncates the plan to n targets
func (s *SweepStrategy) Limit(n int) {
	if n < len(s.order) {
		s.order = s.order[:n]
	}
}

func (s *SweepStrategy) Len() int {
	return len(s.order)
}

// Targets returns the planned tour
func (s *SweepStrategy) Targets() []grid.Cell {
	return append([]grid.Cell(nil), s.order...)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
