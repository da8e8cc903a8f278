// Command validate checks the scenario JSON files in a directory
// (../configs by default). It checks:
//   - JSON structure and required fields (engine.ValidateScenario)
//   - that the scenario builds: layout, buildings, obstacles, maze carving
//   - reachability: the city goal, or every maze exit, from the start
//
// Scenarios without a seed are built with seed 1. An unreachable target is
// then only a warning, since other seeds place obstacles elsewhere.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/pathfinder/game/engine"
	"github.com/wricardo/mcp-training/pathfinder/game/grid"
	"github.com/wricardo/mcp-training/pathfinder/game/search"
)

const fallbackSeed = 1

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads, validates and builds a single scenario file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := engine.ParseScenario(data)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	seed := config.Seed
	if seed == 0 {
		seed = fallbackSeed
	}
	sim, err := engine.NewSimulation(config, rand.New(rand.NewSource(seed)))
	if err != nil {
		result.fail("Failed to build scenario: %v", err)
		return result
	}

	reach := validateReachability(sim)
	switch {
	case reach.Valid:
		result.Errors = append(result.Errors, reach.Errors...)
	case config.Seed == 0:
		result.Warnings = append(result.Warnings, reach.Errors...)
	default:
		result.Valid = false
		result.Errors = append(result.Errors, reach.Errors...)
	}

	if result.Valid {
		g := sim.Grid()
		result.Errors = append(result.Errors,
			fmt.Sprintf("✓ Name: %s", config.Name),
			fmt.Sprintf("✓ Algorithm: %s (%s)", sim.Algorithm(), sim.Algorithm().Description()),
			fmt.Sprintf("✓ Grid: %dx%d %s", g.Width(), g.Height(), config.World),
			fmt.Sprintf("✓ Passable cells: %d/%d", g.CountPassable(), g.Width()*g.Height()),
			fmt.Sprintf("✓ Obstacles: %d", g.Count(grid.Obstacle)),
		)
	}

	return result
}

// validateReachability runs a breadth-first search from the start to every
// target: the goal in a city, each exit in a maze.
func validateReachability(sim *engine.Simulation) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	cfg := sim.Config()
	var targets []grid.Cell
	if cfg.World == engine.WorldMaze {
		targets = cfg.Exits
	} else if cfg.Goal != nil {
		targets = []grid.Cell{*cfg.Goal}
	}

	if len(targets) == 0 {
		result.Errors = append(result.Errors, "✓ Reachability: no fixed target, goals are chosen at runtime")
		return result
	}

	g := sim.Grid()
	unreachable := []string{}
	for _, target := range targets {
		s := search.NewBreadthFirst(g, cfg.Start, target)
		r := search.Run(s, 0)
		if r.Outcome != search.GoalReached {
			unreachable = append(unreachable, fmt.Sprintf("%s (%s)", target, r.Outcome))
			continue
		}
		path := search.Reconstruct(s.Predecessors(), target)
		result.Errors = append(result.Errors, fmt.Sprintf("✓ %s reachable in %d moves", target, len(path)-1))
	}

	if len(unreachable) > 0 {
		result.Valid = false
		result.Errors = []string{fmt.Sprintf("Reachability failure: %d/%d targets unreachable from %s", len(unreachable), len(targets), cfg.Start)}
		for _, u := range unreachable {
			result.Errors = append(result.Errors, fmt.Sprintf("Unreachable: %s", u))
		}
	}

	return result
}

// main validates every *.json file in the directory given as the first
// argument, exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No scenario files in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
		for _, w := range result.Warnings {
			fmt.Println("  ⚠ " + w)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All scenarios are valid!")
	} else {
		fmt.Println("❌ Some scenarios have errors")
		os.Exit(1)
	}
}
