package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/wricardo/mcp-training/pathfinder/game/grid"
	"github.com/wricardo/mcp-training/pathfinder/game/maze"
	"github.com/wricardo/mcp-training/pathfinder/game/playback"
	"github.com/wricardo/mcp-training/pathfinder/game/search"
)

// Simulation is one scenario instance: its grid, markers and controller.
// It is not safe for concurrent use.
type Simulation struct {
	config     ScenarioConfig
	grid       *grid.Grid
	algorithm  search.Algorithm
	controller *playback.Controller
	markers    []Marker
	exits      []grid.Cell
}

// NewSimulation builds the grid and controller described by config. A nil
// rng is seeded from config.Seed, or from the clock when the seed is 0.
func NewSimulation(config *ScenarioConfig, rng *rand.Rand) (*Simulation, error) {
	if err := ValidateScenario(config); err != nil {
		return nil, err
	}
	cfg := config.withDefaults()

	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	alg, err := search.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	factory, err := search.FactoryFor(alg)
	if err != nil {
		return nil, err
	}
	movement, err := playback.ParseMovement(cfg.Movement)
	if err != nil {
		return nil, err
	}

	sim := &Simulation{config: cfg, algorithm: alg}
	if err := sim.buildWorld(rng); err != nil {
		return nil, err
	}

	opts := playback.Options{
		Movement: movement,
		CellSize: cfg.CellSize,
		Speed:    cfg.Speed,
	}
	goal := cfg.Goal
	if cfg.World == WorldMaze {
		// Maze goals are exits only, chosen by the user
		opts.Goals = append([]grid.Cell(nil), cfg.Exits...)
		goal = nil
	}

	sim.controller, err = playback.NewController(sim.grid, factory, cfg.Start, goal, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create controller: %w", err)
	}
	return sim, nil
}

func (s *Simulation) buildWorld(rng *rand.Rand) error {
	cfg := s.config

	switch cfg.World {
	case WorldMaze:
		g, err := maze.Generate(cfg.Width, cfg.Height, cfg.Start, rng)
		if err != nil {
			return err
		}
		s.grid = g
		s.exits = maze.ConnectExits(g, cfg.Exits)
		for i, exit := range cfg.Exits {
			s.markers = append(s.markers, Marker{Kind: MarkerExit, Label: fmt.Sprintf("EXIT %d", i+1), Cell: exit})
		}
		return nil

	default:
		// Obstacles never land on the start or the configured goal
		reserved := []grid.Cell{cfg.Start}
		if cfg.Goal != nil {
			reserved = append(reserved, *cfg.Goal)
		}

		if len(cfg.Layout) > 0 {
			g, err := grid.Parse(cfg.Layout)
			if err != nil {
				return err
			}
			for _, b := range cfg.Buildings {
				g.FillRectangle(b.X1, b.Y1, b.X2, b.Y2, b.Kind)
			}
			g.ScatterObstacles(cfg.Obstacles, rng, reserved...)
			s.grid = g
		} else {
			layout := grid.DefaultCityLayout(cfg.Width, cfg.Height)
			if cfg.Buildings != nil {
				layout.Blocks = cfg.Buildings
			}
			layout.Obstacles = cfg.Obstacles
			layout.Reserved = reserved
			g, err := grid.NewCity(layout, rng)
			if err != nil {
				return err
			}
			s.grid = g
		}

		blocks := cfg.Buildings
		if blocks == nil && len(cfg.Layout) == 0 {
			blocks = grid.DefaultCityLayout(cfg.Width, cfg.Height).Blocks
		}
		for _, b := range blocks {
			if b.Label == "" {
				continue
			}
			s.markers = append(s.markers, Marker{Kind: MarkerBuilding, Label: b.Label, Cell: grid.Cell{X: b.X1, Y: b.Y1}})
		}
		return nil
	}
}

// Tick advances the simulation by one unit of work
func (s *Simulation) Tick() playback.Event {
	return s.controller.Tick()
}

// SelectGoal forwards a goal selection to the controller
func (s *Simulation) SelectGoal(c grid.Cell) bool {
	return s.controller.SelectGoal(c)
}

// PixelToCell maps pixel coordinates to a cell, rejecting points outside the grid
func (s *Simulation) PixelToCell(px, py int) (grid.Cell, bool) {
	if px < 0 || py < 0 {
		return grid.Cell{}, false
	}
	c := grid.Cell{X: px / s.config.CellSize, Y: py / s.config.CellSize}
	return c, s.grid.InBounds(c)
}

// Markers returns the labelled cells, including the current goal
func (s *Simulation) Markers() []Marker {
	markers := make([]Marker, len(s.markers), len(s.markers)+1)
	copy(markers, s.markers)
	if goal, ok := s.controller.Goal(); ok && s.config.World != WorldMaze {
		markers = append(markers, Marker{Kind: MarkerGoal, Label: "GOAL", Cell: goal})
	}
	return markers
}

// DescribeCell reports the terrain and search status of c
func (s *Simulation) DescribeCell(c grid.Cell) (*CellInfo, error) {
	t, err := s.grid.TerrainAt(c)
	if err != nil {
		return nil, err
	}

	info := &CellInfo{
		Cell:       c,
		Terrain:    t,
		Passable:   t.Passable(),
		Selectable: s.controller.Accepts(c),
		InTrace:    containsCell(s.controller.Trace(), c),
		OnPath:     containsCell(s.controller.Path(), c),
	}
	for _, m := range s.markers {
		if m.Cell == c {
			info.Label = m.Label
		}
	}
	return info, nil
}

// Snapshot returns the serialisable view of the simulation
func (s *Simulation) Snapshot() *Snapshot {
	snap := &Snapshot{
		Scenario:  s.config.Name,
		Algorithm: string(s.algorithm),
		World:     s.config.World,
		Width:     s.grid.Width(),
		Height:    s.grid.Height(),
		CellSize:  s.config.CellSize,
		Rows:      s.grid.Rows(),
		State:     s.controller.State(),
		Agent:     s.controller.Agent(),
		Trace:     s.controller.Trace(),
		Path:      s.controller.Path(),
		Markers:   s.Markers(),
		Tick:      s.controller.Ticks(),
		Searches:  s.controller.Searches(),
	}
	if outcome, ok := s.controller.LastOutcome(); ok {
		snap.Outcome = outcome.String()
	}
	if goal, ok := s.controller.Goal(); ok {
		snap.Goal = &goal
	}
	return snap
}

// TickInterval is the wall-clock duration of one tick
func (s *Simulation) TickInterval() time.Duration {
	return time.Duration(s.config.TickMS) * time.Millisecond
}

func (s *Simulation) Grid() *grid.Grid { return s.grid }

// Config returns a copy of the scenario with defaults applied
func (s *Simulation) Config() ScenarioConfig { return s.config }

func (s *Simulation) Algorithm() search.Algorithm { return s.algorithm }

func (s *Simulation) Controller() *playback.Controller { return s.controller }

// Exits returns the maze exits that were connected to the maze
func (s *Simulation) Exits() []grid.Cell { return s.exits }
