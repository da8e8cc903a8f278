// Package playback drives one agent through repeated search and
// path-following cycles on a grid.
//
// A Controller starts in Searching when it is given a goal and in IdleAtGoal
// otherwise. Every Tick performs one unit of work: a single search expansion
// while Searching, or a single movement step while FollowingPath. Selecting a
// new goal preempts whatever the controller was doing and starts a fresh
// search from the agent's present cell.
package playback

import (
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/pathfinder/game/grid"
	"github.com/wricardo/mcp-training/pathfinder/game/search"
)

var ErrNoFactory = errors.New("stepper factory is required")

// Options tunes movement and goal acceptance
type Options struct {
	Movement Movement
	// CellSize is the pixel size of one cell for Continuous movement
	CellSize int
	// Speed is the pixel distance covered per tick for Continuous movement
	Speed float64
	// Threshold is the distance under which a path cell counts as reached
	Threshold float64
	// Goals, when set, restricts goal selection to these cells regardless of
	// their terrain. Used for maze exits.
	Goals []grid.Cell
}

func (o Options) withDefaults() Options {
	if o.CellSize <= 0 {
		o.CellSize = DefaultCellSize
	}
	if o.Speed <= 0 {
		o.Speed = DefaultSpeed
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	return o
}

// Controller is the search/follow state machine. It is not safe for
// concurrent use; callers serialise access.
type Controller struct {
	grid    *grid.Grid
	factory search.Factory
	opts    Options
	goals   map[grid.Cell]bool

	state   State
	stepper search.Stepper
	trace   []grid.Cell
	path    []grid.Cell
	agent   Agent
	goal    *grid.Cell

	lastOutcome *search.Outcome
	searches    int
	ticks       int
}

// NewController places the agent on start. With a goal the controller begins
// searching immediately; without one it waits in IdleAtGoal.
func NewController(g *grid.Grid, factory search.Factory, start grid.Cell, goal *grid.Cell, opts Options) (*Controller, error) {
	if factory == nil {
		return nil, ErrNoFactory
	}
	if !g.InBounds(start) {
		return nil, fmt.Errorf("start %s: %w", start, grid.ErrOutOfBounds)
	}

	opts = opts.withDefaults()
	c := &Controller{
		grid:    g,
		factory: factory,
		opts:    opts,
		state:   IdleAtGoal,
		trace:   []grid.Cell{},
		path:    []grid.Cell{},
		agent:   newAgent(start, opts.CellSize),
	}
	if len(opts.Goals) > 0 {
		c.goals = make(map[grid.Cell]bool, len(opts.Goals))
		for _, cell := range opts.Goals {
			c.goals[cell] = true
		}
	}

	if goal != nil {
		c.restart(*goal)
	}
	return c, nil
}

// Accepts reports whether cell would be taken as a new goal
func (c *Controller) Accepts(cell grid.Cell) bool {
	if c.goals != nil {
		return c.goals[cell]
	}
	return c.grid.IsPassable(cell)
}

// SelectGoal discards the current search and path and starts searching from
// the agent's present cell toward cell. Rejected selections change nothing.
func (c *Controller) SelectGoal(cell grid.Cell) bool {
	if !c.Accepts(cell) {
		return false
	}
	c.restart(cell)
	return true
}

func (c *Controller) restart(goal grid.Cell) {
	g := goal
	c.goal = &g
	c.stepper = c.factory(c.grid, c.agent.Cell, goal)
	c.trace = []grid.Cell{}
	c.path = []grid.Cell{}
	c.agent.Index = 0
	c.agent.Following = false
	c.lastOutcome = nil
	c.state = Searching
	c.searches++
}

// Tick advances the state machine by one unit of work
func (c *Controller) Tick() Event {
	c.ticks++
	switch c.state {
	case Searching:
		return c.stepSearch()
	case FollowingPath:
		return c.stepFollow()
	}
	return EventIdle
}

func (c *Controller) stepSearch() Event {
	r := c.stepper.Step()
	outcome := r.Outcome
	c.lastOutcome = &outcome

	switch r.Outcome {
	case search.Expanded:
		c.trace = append(c.trace, r.Cell)
		return EventExpanded
	case search.GoalReached:
		c.trace = append(c.trace, r.Cell)
		c.path = search.Reconstruct(c.stepper.Predecessors(), c.stepper.Goal())
		c.agent.Index = 0
		c.agent.Following = true
		c.state = FollowingPath
		return EventPathFound
	}

	// Exhausted or Invalid: no route, the agent stays put
	c.trace = []grid.Cell{}
	c.path = []grid.Cell{}
	c.agent.Following = false
	c.state = IdleAtGoal
	return EventNoRoute
}

func (c *Controller) stepFollow() Event {
	if c.agent.Index < len(c.path) {
		target := c.path[c.agent.Index]
		switch c.opts.Movement {
		case Continuous:
			if c.agent.glide(target, c.opts.CellSize, c.opts.Speed, c.opts.Threshold) {
				c.agent.Index++
			}
		default:
			c.agent.snapTo(target, c.opts.CellSize)
			c.agent.Index++
		}
	}

	if c.agent.Index >= len(c.path) {
		c.trace = []grid.Cell{}
		c.agent.Index = 0
		c.agent.Following = false
		c.state = IdleAtGoal
		return EventArrived
	}
	return EventMoved
}

func (c *Controller) State() State { return c.state }

// Agent returns a copy of the agent
func (c *Controller) Agent() Agent { return c.agent }

// Goal returns the current goal, if any
func (c *Controller) Goal() (grid.Cell, bool) {
	if c.goal == nil {
		return grid.Cell{}, false
	}
	return *c.goal, true
}

// Trace returns a copy of the exploration trace of the current search
func (c *Controller) Trace() []grid.Cell {
	out := make([]grid.Cell, len(c.trace))
	copy(out, c.trace)
	return out
}

// Path returns a copy of the path being followed or last followed
func (c *Controller) Path() []grid.Cell {
	out := make([]grid.Cell, len(c.path))
	copy(out, c.path)
	return out
}

// LastOutcome returns the outcome of the most recent search step
func (c *Controller) LastOutcome() (search.Outcome, bool) {
	if c.lastOutcome == nil {
		return search.Expanded, false
	}
	return *c.lastOutcome, true
}

// Searches counts the searches started so far
func (c *Controller) Searches() int { return c.searches }

// Ticks counts calls to Tick
func (c *Controller) Ticks() int { return c.ticks }

func (c *Controller) Grid() *grid.Grid { return c.grid }

func (c *Controller) Options() Options { return c.opts }
