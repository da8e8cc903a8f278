package search

import "github.com/wricardo/mcp-training/pathfinder/game/grid"

// BreadthFirst is the uninformed search: a FIFO frontier whose predecessor
// links are fixed when a cell is first enqueued.
type BreadthFirst struct {
	state
	queue []grid.Cell
	head  int
}

// NewBreadthFirst creates a breadth-first stepper from start to goal
func NewBreadthFirst(g *grid.Grid, start, goal grid.Cell) *BreadthFirst {
	return &BreadthFirst{
		state: newState(g, start, goal, Uninformed),
		queue: []grid.Cell{start},
	}
}

// Step dequeues one cell and enqueues its unvisited passable neighbours
func (b *BreadthFirst) Step() Result {
	if r, done := b.precheck(); done {
		return r
	}
	if b.head >= len(b.queue) {
		return b.finish(Exhausted, b.goal)
	}

	current := b.queue[b.head]
	b.head++

	if r, reached := b.expand(current); reached {
		return r
	}

	for _, n := range b.grid.Neighbors(current, grid.Clockwise) {
		if b.visited[n] || !b.grid.IsPassable(n) {
			continue
		}
		b.visited[n] = true
		b.predecessors[n] = current
		b.queue = append(b.queue, n)
	}

	// Drop the consumed prefix once it dominates the slice
	if b.head > 64 && b.head*2 > len(b.queue) {
		b.queue = append(b.queue[:0], b.queue[b.head:]...)
		b.head = 0
	}

	return Result{Outcome: Expanded, Cell: current}
}

// Pending returns the number of queued cells
func (b *BreadthFirst) Pending() int {
	return len(b.queue) - b.head
}
