package engine

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/pathfinder/game/grid"
	"github.com/wricardo/mcp-training/pathfinder/game/playback"
)

func runUntil(t *testing.T, sim *Simulation, state playback.State, limit int) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if sim.Controller().State() == state {
			return
		}
		sim.Tick()
	}
	t.Fatalf("Simulation did not reach %s within %d ticks (state %s)", state, limit, sim.Controller().State())
}

func TestNewSimulation_CitySearchAndFollow(t *testing.T) {
	sim, err := NewSimulation(createValidScenario(), nil)
	if err != nil {
		t.Fatalf("Failed to create simulation: %v", err)
	}

	if sim.Controller().State() != playback.Searching {
		t.Errorf("Expected searching, got %s", sim.Controller().State())
	}

	runUntil(t, sim, playback.FollowingPath, 200)
	path := sim.Controller().Path()
	if len(path) != 14 {
		t.Errorf("Expected path of 14 cells, got %d", len(path))
	}

	runUntil(t, sim, playback.IdleAtGoal, 200)
	agent := sim.Controller().Agent()
	if agent.Cell != (grid.Cell{X: 8, Y: 5}) {
		t.Errorf("Expected agent at goal, got %s", agent.Cell)
	}
}

func TestNewSimulation_Defaults(t *testing.T) {
	config := createValidScenario()
	config.TickMS = 0
	sim, err := NewSimulation(config, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Failed to create simulation: %v", err)
	}

	cfg := sim.Config()
	if cfg.CellSize != DefaultCityCellSize {
		t.Errorf("Expected default cell size %d, got %d", DefaultCityCellSize, cfg.CellSize)
	}
	if sim.TickInterval().Milliseconds() != DefaultTickMS {
		t.Errorf("Expected default tick, got %v", sim.TickInterval())
	}
	if config.CellSize != 0 {
		t.Error("Caller's config must not be modified")
	}
}

func TestNewSimulation_InvalidConfig(t *testing.T) {
	config := createValidScenario()
	config.Name = ""
	if _, err := NewSimulation(config, nil); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestNewSimulation_DefaultCity(t *testing.T) {
	config := DefaultScenario()
	config.Seed = 99

	sim, err := NewSimulation(config, nil)
	if err != nil {
		t.Fatalf("Failed to create simulation: %v", err)
	}

	g := sim.Grid()
	if got := g.Count(grid.Obstacle); got != 30 {
		t.Errorf("Expected 30 obstacles, got %d", got)
	}
	if !g.IsPassable(*config.Goal) {
		t.Errorf("Configured goal %s must be passable", *config.Goal)
	}

	labels := map[string]bool{}
	for _, m := range sim.Markers() {
		labels[m.Label] = true
	}
	for _, want := range []string{"HOUSE", "SCHOOL", "HOSPITAL", "PARK", "GOAL"} {
		if !labels[want] {
			t.Errorf("Expected marker %s", want)
		}
	}

	// Same seed, same city
	again, _ := NewSimulation(config, nil)
	if strings.Join(again.Grid().Rows(), "\n") != strings.Join(g.Rows(), "\n") {
		t.Error("Expected identical grids for identical seeds")
	}
}

func TestNewSimulation_Maze(t *testing.T) {
	sim, err := NewSimulation(createMazeScenario(), nil)
	if err != nil {
		t.Fatalf("Failed to create maze: %v", err)
	}

	ctrl := sim.Controller()
	if ctrl.State() != playback.IdleAtGoal {
		t.Errorf("Maze should wait for an exit, got %s", ctrl.State())
	}
	if len(sim.Exits()) != 2 {
		t.Errorf("Expected both exits connected, got %v", sim.Exits())
	}

	exitMarkers := 0
	for _, m := range sim.Markers() {
		if m.Kind == MarkerExit {
			exitMarkers++
		}
	}
	if exitMarkers != 2 {
		t.Errorf("Expected 2 exit markers, got %d", exitMarkers)
	}

	if sim.SelectGoal(grid.Cell{X: 3, Y: 1}) {
		t.Error("Only exits can be selected in a maze")
	}

	exit := grid.Cell{X: 19, Y: 13}
	if !sim.SelectGoal(exit) {
		t.Fatal("Expected exit selection to be accepted")
	}
	runUntil(t, sim, playback.FollowingPath, 500)
	runUntil(t, sim, playback.IdleAtGoal, 500)
	if sim.Controller().Agent().Cell != exit {
		t.Errorf("Expected agent at exit, got %s", sim.Controller().Agent().Cell)
	}
}

func TestPixelToCell(t *testing.T) {
	sim, err := NewSimulation(createValidScenario(), nil)
	if err != nil {
		t.Fatalf("Failed to create simulation: %v", err)
	}

	tests := []struct {
		px, py int
		want   grid.Cell
		ok     bool
	}{
		{0, 0, grid.Cell{X: 0, Y: 0}, true},
		{45, 21, grid.Cell{X: 2, Y: 1}, true},
		{239, 199, grid.Cell{X: 11, Y: 9}, true},
		{240, 0, grid.Cell{X: 12, Y: 0}, false},
		{-1, 5, grid.Cell{}, false},
	}
	for _, tt := range tests {
		got, ok := sim.PixelToCell(tt.px, tt.py)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("PixelToCell(%d, %d) = %s, %v; want %s, %v", tt.px, tt.py, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDescribeCell(t *testing.T) {
	sim, err := NewSimulation(createValidScenario(), nil)
	if err != nil {
		t.Fatalf("Failed to create simulation: %v", err)
	}
	sim.Tick()

	info, err := sim.DescribeCell(grid.Cell{X: 0, Y: 0})
	if err != nil {
		t.Fatalf("DescribeCell failed: %v", err)
	}
	if !info.Passable || !info.Selectable || !info.InTrace {
		t.Errorf("Unexpected info for start: %+v", info)
	}

	info, _ = sim.DescribeCell(grid.Cell{X: 1, Y: 1})
	if info.Terrain != grid.Building || info.Passable {
		t.Errorf("Expected impassable building, got %+v", info)
	}

	if _, err := sim.DescribeCell(grid.Cell{X: 50, Y: 50}); err == nil {
		t.Error("Expected out of bounds error")
	}
}

func TestSnapshot(t *testing.T) {
	sim, err := NewSimulation(createValidScenario(), nil)
	if err != nil {
		t.Fatalf("Failed to create simulation: %v", err)
	}
	sim.Tick()
	sim.Tick()

	snap := sim.Snapshot()
	if snap.Tick != 2 || snap.Searches != 1 {
		t.Errorf("Expected tick 2 and 1 search, got %d/%d", snap.Tick, snap.Searches)
	}
	if len(snap.Rows) != 10 || len(snap.Rows[0]) != 12 {
		t.Errorf("Unexpected rows: %v", snap.Rows)
	}
	if len(snap.Trace) != 2 || snap.Outcome != "expanded" {
		t.Errorf("Unexpected trace/outcome: %v %s", snap.Trace, snap.Outcome)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Failed to marshal snapshot: %v", err)
	}
	var decoded map[string]interface{}
	json.Unmarshal(data, &decoded)
	if decoded["state"] != "searching" {
		t.Errorf("Expected state searching, got %v", decoded["state"])
	}
	if decoded["algorithm"] != "uninformed" {
		t.Errorf("Expected algorithm uninformed, got %v", decoded["algorithm"])
	}
}

func TestRenderASCII(t *testing.T) {
	sim, err := NewSimulation(createValidScenario(), nil)
	if err != nil {
		t.Fatalf("Failed to create simulation: %v", err)
	}
	runUntil(t, sim, playback.FollowingPath, 200)

	out := RenderASCII(sim.Snapshot())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("Expected 10 lines, got %d", len(lines))
	}
	if lines[0][0] != 'C' {
		t.Errorf("Expected car at origin, got %q", lines[0])
	}
	if lines[5][8] != 'G' {
		t.Errorf("Expected goal at (8,5), got %q", lines[5])
	}
	if !strings.Contains(out, "*") {
		t.Error("Expected path cells in output")
	}
}
