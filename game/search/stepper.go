package search

import (
	"encoding/json"
	"fmt"

	"github.com/wricardo/mcp-training/pathfinder/game/grid"
)

// Outcome is the result kind of a single Step
type Outcome int

const (
	Expanded Outcome = iota
	GoalReached
	Exhausted
	Invalid
)

var outcomeNames = map[Outcome]string{
	Expanded:    "expanded",
	GoalReached: "goal_reached",
	Exhausted:   "exhausted",
	Invalid:     "invalid",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Terminal reports whether the outcome ends the search
func (o Outcome) Terminal() bool {
	return o != Expanded
}

// MarshalJSON encodes the outcome by name
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// Result is what a single Step reports. Cell is the expanded cell for
// Expanded and the goal for GoalReached.
type Result struct {
	Outcome Outcome   `json:"outcome"`
	Cell    grid.Cell `json:"cell"`
}

// NoParent marks the search origin in a Predecessors map
var NoParent = grid.Cell{X: -1, Y: -1}

// Predecessors maps each reached cell to the cell it was reached from
type Predecessors map[grid.Cell]grid.Cell

// Stepper is a resumable search over a grid
type Stepper interface {
	// Step performs one expansion, or repeats the terminal result
	Step() Result
	// Done reports whether a terminal result has been produced
	Done() bool

	Start() grid.Cell
	Goal() grid.Cell
	Algorithm() Algorithm

	// Trace returns the expanded cells in expansion order
	Trace() []grid.Cell
	// Predecessors exposes the predecessor map built so far
	Predecessors() Predecessors
}

// state holds what every strategy shares
type state struct {
	grid      *grid.Grid
	start     grid.Cell
	goal      grid.Cell
	algorithm Algorithm

	visited      map[grid.Cell]bool
	predecessors Predecessors
	trace        []grid.Cell

	invalid  bool
	terminal *Result
}

func newState(g *grid.Grid, start, goal grid.Cell, alg Algorithm) state {
	return state{
		grid:         g,
		start:        start,
		goal:         goal,
		algorithm:    alg,
		visited:      map[grid.Cell]bool{start: true},
		predecessors: Predecessors{start: NoParent},
		trace:        []grid.Cell{},
		invalid:      !g.IsPassable(goal),
	}
}

func (s *state) Start() grid.Cell           { return s.start }
func (s *state) Goal() grid.Cell            { return s.goal }
func (s *state) Algorithm() Algorithm       { return s.algorithm }
func (s *state) Predecessors() Predecessors { return s.predecessors }
func (s *state) Done() bool                 { return s.terminal != nil }

func (s *state) Trace() []grid.Cell {
	out := make([]grid.Cell, len(s.trace))
	copy(out, s.trace)
	return out
}

// finish records a terminal result and returns it
func (s *state) finish(outcome Outcome, c grid.Cell) Result {
	r := Result{Outcome: outcome, Cell: c}
	s.terminal = &r
	return r
}

// precheck returns the sticky terminal result, if any, and handles an invalid goal
func (s *state) precheck() (Result, bool) {
	if s.terminal != nil {
		return *s.terminal, true
	}
	if s.invalid {
		return s.finish(Invalid, s.goal), true
	}
	return Result{}, false
}

// expand records c as expanded and reports whether it is the goal
func (s *state) expand(c grid.Cell) (Result, bool) {
	s.trace = append(s.trace, c)
	if c == s.goal {
		return s.finish(GoalReached, c), true
	}
	return Result{Outcome: Expanded, Cell: c}, false
}
