package search

import "github.com/wricardo/mcp-training/pathfinder/game/grid"

// Reconstruct walks pred backwards from goal and returns the path from the
// search origin to goal inclusive. It returns an empty path when goal was
// never reached.
func Reconstruct(pred Predecessors, goal grid.Cell) []grid.Cell {
	if _, ok := pred[goal]; !ok {
		return []grid.Cell{}
	}

	path := []grid.Cell{}
	for node := goal; node != NoParent; node = pred[node] {
		// A well-formed map cannot hold a cycle; bail out rather than spin
		if len(path) > len(pred) {
			return []grid.Cell{}
		}
		path = append(path, node)
		if _, ok := pred[node]; !ok {
			break
		}
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
