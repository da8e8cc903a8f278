package search

import "github.com/wricardo/mcp-training/pathfinder/game/grid"

// DepthFirst explores with a LIFO frontier. Used to find maze exits.
type DepthFirst struct {
	state
	stack []grid.Cell
}

// NewDepthFirst creates a depth-first stepper from start to goal
func NewDepthFirst(g *grid.Grid, start, goal grid.Cell) *DepthFirst {
	return &DepthFirst{
		state: newState(g, start, goal, Maze),
		stack: []grid.Cell{start},
	}
}

// Step pops the top cell and pushes its unvisited open neighbours
func (d *DepthFirst) Step() Result {
	if r, done := d.precheck(); done {
		return r
	}
	if len(d.stack) == 0 {
		return d.finish(Exhausted, d.goal)
	}

	current := d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]

	if r, reached := d.expand(current); reached {
		return r
	}

	for _, n := range d.grid.Neighbors(current, grid.Clockwise) {
		if d.visited[n] || !d.grid.IsPassable(n) {
			continue
		}
		d.visited[n] = true
		d.predecessors[n] = current
		d.stack = append(d.stack, n)
	}

	return Result{Outcome: Expanded, Cell: current}
}

// Pending returns the number of stacked cells
func (d *DepthFirst) Pending() int {
	return len(d.stack)
}
