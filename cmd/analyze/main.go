// Command analyze compares the search algorithms on a scenario. It builds
// the scenario's grid once, runs every algorithm from the start to the goal
// without animation, and prints how many cells each expanded and how long
// its path is. With --map it also prints the grid with the shortest path.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"github.com/vyevs/ansi"

	"github.com/wricardo/mcp-training/pathfinder/game/config"
	"github.com/wricardo/mcp-training/pathfinder/game/engine"
	"github.com/wricardo/mcp-training/pathfinder/game/grid"
	"github.com/wricardo/mcp-training/pathfinder/game/search"
)

var errNoGoal = errors.New("scenario has no goal; pass --goal x,y")

// Comparison is one algorithm's run over a scenario
type Comparison struct {
	Algorithm search.Algorithm
	Outcome   search.Outcome
	Expanded  int
	Path      []grid.Cell
}

// Moves is the number of steps along the path, or -1 without one
func (c Comparison) Moves() int {
	return len(c.Path) - 1
}

var terrainColors = map[grid.Terrain]string{
	grid.Road:     "light gray",
	grid.Building: "purple",
	grid.Obstacle: "red",
	grid.House:    "orange",
	grid.School:   "cyan",
	grid.Hospital: "pink",
	grid.Park:     "chartreuse",
	grid.Wall:     "light gray",
	grid.Open:     "light gray",
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "compare informed, uninformed and maze search on a scenario",
		ArgsUsage: "<scenario name or .json path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "directory holding scenario files",
				Value:   "configs",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "seed for scenarios that do not fix one",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  "goal",
				Usage: "override the goal as x,y (required for mazes: pick an exit)",
			},
			&cli.BoolFlag{
				Name:  "map",
				Usage: "print the grid with the shortest path",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return fmt.Errorf("missing scenario argument")
			}

			scenario, err := loadScenario(cmd.String("config-dir"), name)
			if err != nil {
				return err
			}

			var goal *grid.Cell
			if g := cmd.String("goal"); g != "" {
				c, err := parseCell(g)
				if err != nil {
					return err
				}
				goal = &c
			}

			return analyze(cmd.Root().Writer, scenario, cmd.Int64("seed"), goal, cmd.Bool("map"))
		},
	}
}

// loadScenario reads a .json path directly and anything else by name
func loadScenario(dir, name string) (*engine.ScenarioConfig, error) {
	if strings.HasSuffix(name, ".json") && strings.ContainsRune(name, filepath.Separator) {
		return engine.LoadScenario(name)
	}
	manager, err := config.NewManager(dir)
	if err != nil {
		return nil, err
	}
	return manager.LoadConfig(name)
}

func parseCell(s string) (grid.Cell, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return grid.Cell{}, fmt.Errorf("invalid cell %q, want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return grid.Cell{}, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return grid.Cell{}, fmt.Errorf("invalid y in %q: %w", s, err)
	}
	return grid.Cell{X: x, Y: y}, nil
}

func analyze(w io.Writer, scenario *engine.ScenarioConfig, seed int64, goal *grid.Cell, withMap bool) error {
	if scenario.Seed != 0 {
		seed = scenario.Seed
	}
	sim, err := engine.NewSimulation(scenario, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	cfg := sim.Config()
	if goal == nil {
		goal = cfg.Goal
	}
	if goal == nil {
		return errNoGoal
	}
	g := sim.Grid()
	if !g.InBounds(*goal) {
		return fmt.Errorf("goal %s: %w", *goal, grid.ErrOutOfBounds)
	}

	fmt.Fprintf(w, "=== %s ===\n", cfg.Name)
	fmt.Fprintf(w, "%s\n", cfg.Description)
	fmt.Fprintf(w, "Grid: %dx%d %s, seed %d\n", g.Width(), g.Height(), cfg.World, seed)
	fmt.Fprintf(w, "Start: %s  Goal: %s  Manhattan: %d\n\n", cfg.Start, *goal, grid.ManhattanDistance(cfg.Start, *goal))

	results := compare(g, cfg.Start, *goal)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tOUTCOME\tEXPANDED\tMOVES")
	for _, r := range results {
		moves := "-"
		if r.Moves() >= 0 {
			moves = strconv.Itoa(r.Moves())
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Algorithm, r.Outcome, r.Expanded, moves)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if withMap {
		fmt.Fprintln(w)
		fmt.Fprint(w, renderMap(g, shortest(results), cfg.Start, *goal))
	}
	return nil
}

// compare runs every algorithm to completion on the same grid
func compare(g *grid.Grid, start, goal grid.Cell) []Comparison {
	var results []Comparison
	for _, alg := range search.Algorithms() {
		s, err := search.New(alg, g, start, goal)
		if err != nil {
			continue
		}
		r := search.Run(s, 0)

		c := Comparison{
			Algorithm: alg,
			Outcome:   r.Outcome,
			Expanded:  len(s.Trace()),
		}
		if r.Outcome == search.GoalReached {
			c.Path = search.Reconstruct(s.Predecessors(), goal)
		}
		results = append(results, c)
	}
	return results
}

// shortest returns the shortest path found, preferring earlier algorithms on ties
func shortest(results []Comparison) []grid.Cell {
	var best []grid.Cell
	for _, r := range results {
		if len(r.Path) > 0 && (best == nil || len(r.Path) < len(best)) {
			best = r.Path
		}
	}
	return best
}

// renderMap colours terrain by type and marks the path with '*'
func renderMap(g *grid.Grid, path []grid.Cell, start, goal grid.Cell) string {
	onPath := make(map[grid.Cell]bool, len(path))
	for _, c := range path {
		onPath[c] = true
	}

	var b strings.Builder
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := grid.Cell{X: x, Y: y}
			t, _ := g.TerrainAt(c)

			switch {
			case c == start:
				b.WriteString(ansi.FGColorName("green"))
				b.WriteByte('S')
			case c == goal:
				b.WriteString(ansi.FGColorName("green"))
				b.WriteByte('G')
			case onPath[c]:
				b.WriteString(ansi.FGColorName("yellow"))
				b.WriteByte('*')
			default:
				b.WriteString(ansi.FGColorName(terrainColors[t]))
				b.WriteByte(t.Char())
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString(ansi.Clear)
	return b.String()
}
