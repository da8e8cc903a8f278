package playback

import (
	"math"

	"github.com/wricardo/mcp-training/pathfinder/game/grid"
)

const (
	DefaultCellSize  = 20
	DefaultSpeed     = 2.0
	DefaultThreshold = 2.0
)

// Agent is the moving car. X and Y are pixel coordinates of its centre and
// are only meaningful for Continuous movement.
type Agent struct {
	Cell      grid.Cell `json:"cell"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Index     int       `json:"index"`
	Following bool      `json:"following"`
}

// centre returns the pixel centre of c
func centre(c grid.Cell, cellSize int) (float64, float64) {
	half := float64(cellSize / 2)
	return float64(c.X*cellSize) + half, float64(c.Y*cellSize) + half
}

func newAgent(start grid.Cell, cellSize int) Agent {
	x, y := centre(start, cellSize)
	return Agent{Cell: start, X: x, Y: y}
}

// snapTo places the agent on c
func (a *Agent) snapTo(c grid.Cell, cellSize int) {
	a.Cell = c
	a.X, a.Y = centre(c, cellSize)
}

// glide moves the agent up to speed pixels toward the centre of target and
// reports whether it arrived within threshold.
func (a *Agent) glide(target grid.Cell, cellSize int, speed, threshold float64) bool {
	tx, ty := centre(target, cellSize)
	dx, dy := tx-a.X, ty-a.Y
	dist := math.Hypot(dx, dy)
	if dist < threshold {
		a.snapTo(target, cellSize)
		return true
	}

	step := math.Min(speed, dist)
	a.X += dx / dist * step
	a.Y += dy / dist * step
	a.Cell = grid.Cell{
		X: int(math.Floor(a.X / float64(cellSize))),
		Y: int(math.Floor(a.Y / float64(cellSize))),
	}
	return false
}
