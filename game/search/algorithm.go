package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/pathfinder/game/grid"
)

// Algorithm identifies a search strategy
type Algorithm string

const (
	Informed   Algorithm = "informed"
	Uninformed Algorithm = "uninformed"
	Maze       Algorithm = "maze"
)

var ErrUnknownAlgorithm = errors.New("unknown algorithm")

var descriptions = map[Algorithm]string{
	Informed:   "A* over the city grid, Manhattan heuristic",
	Uninformed: "breadth-first search over the city grid",
	Maze:       "depth-first search for a maze exit",
}

// Factory builds a fresh stepper for a start/goal pair
type Factory func(g *grid.Grid, start, goal grid.Cell) Stepper

// Algorithms returns the known algorithm ids in a stable order
func Algorithms() []Algorithm {
	return []Algorithm{Informed, Uninformed, Maze}
}

// Description returns a one-line summary of the algorithm
func (a Algorithm) Description() string {
	return descriptions[a]
}

// ParseAlgorithm maps an id to an Algorithm
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := descriptions[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
	return a, nil
}

// FactoryFor returns the constructor for alg
func FactoryFor(alg Algorithm) (Factory, error) {
	switch alg {
	case Informed:
		return func(g *grid.Grid, start, goal grid.Cell) Stepper { return NewBestFirst(g, start, goal) }, nil
	case Uninformed:
		return func(g *grid.Grid, start, goal grid.Cell) Stepper { return NewBreadthFirst(g, start, goal) }, nil
	case Maze:
		return func(g *grid.Grid, start, goal grid.Cell) Stepper { return NewDepthFirst(g, start, goal) }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(alg))
}

// New creates a stepper for alg
func New(alg Algorithm, g *grid.Grid, start, goal grid.Cell) (Stepper, error) {
	factory, err := FactoryFor(alg)
	if err != nil {
		return nil, err
	}
	return factory(g, start, goal), nil
}

// Run steps s until it produces a terminal result, bounded by limit steps
// when limit is positive.
func Run(s Stepper, limit int) Result {
	var r Result
	for i := 0; limit <= 0 || i < limit; i++ {
		r = s.Step()
		if r.Outcome.Terminal() {
			return r
		}
	}
	return r
}
