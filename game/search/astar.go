package search

import "github.com/wricardo/mcp-training/pathfinder/game/grid"

// informedOrder is the neighbour order of the informed search
var informedOrder = []grid.Direction{grid.Right, grid.Left, grid.Down, grid.Up}

// Heuristic estimates the remaining cost from c to goal
func Heuristic(c, goal grid.Cell) int {
	return grid.ManhattanDistance(c, goal)
}

// BestFirst is the informed (A*) search. Improved costs push a new frontier
// entry instead of updating the old one; superseded entries are dropped when
// they surface.
type BestFirst struct {
	state
	open      frontier
	costSoFar map[grid.Cell]int
	closed    map[grid.Cell]bool
}

// NewBestFirst creates an informed stepper from start to goal
func NewBestFirst(g *grid.Grid, start, goal grid.Cell) *BestFirst {
	b := &BestFirst{
		state:     newState(g, start, goal, Informed),
		costSoFar: map[grid.Cell]int{start: 0},
		closed:    make(map[grid.Cell]bool),
	}
	b.open.push(Heuristic(start, goal), 0, start)
	return b
}

// Step expands the cheapest live frontier entry
func (b *BestFirst) Step() Result {
	if r, done := b.precheck(); done {
		return r
	}

	var current entry
	for {
		if b.open.len() == 0 {
			return b.finish(Exhausted, b.goal)
		}
		current = b.open.pop()
		if current.cost > b.costSoFar[current.cell] || b.closed[current.cell] {
			continue
		}
		break
	}
	b.closed[current.cell] = true

	if r, reached := b.expand(current.cell); reached {
		return r
	}

	for _, n := range b.grid.Neighbors(current.cell, informedOrder) {
		if !b.grid.IsPassable(n) {
			continue
		}
		newCost := b.costSoFar[current.cell] + 1
		if old, seen := b.costSoFar[n]; seen && newCost >= old {
			continue
		}
		b.costSoFar[n] = newCost
		b.predecessors[n] = current.cell
		b.visited[n] = true
		b.open.push(newCost+Heuristic(n, b.goal), newCost, n)
	}

	return Result{Outcome: Expanded, Cell: current.cell}
}

// CostTo returns the best known cost from start to c
func (b *BestFirst) CostTo(c grid.Cell) (int, bool) {
	cost, ok := b.costSoFar[c]
	return cost, ok
}

// Pending returns the number of frontier entries, stale ones included
func (b *BestFirst) Pending() int {
	return b.open.len()
}
