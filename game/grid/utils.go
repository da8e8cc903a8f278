package grid

// Count counts the cells holding a specific terrain
func (g *Grid) Count(t Terrain) int {
	count := 0
	for _, v := range g.cells {
		if v == t {
			count++
		}
	}
	return count
}

// CountPassable counts the cells search may enter
func (g *Grid) CountPassable() int {
	count := 0
	for _, v := range g.cells {
		if v.Passable() {
			count++
		}
	}
	return count
}

// ManhattanDistance calculates the Manhattan distance between two cells
func ManhattanDistance(from, to Cell) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
