package engine

import (
	"github.com/wricardo/mcp-training/pathfinder/game/grid"
	"github.com/wricardo/mcp-training/pathfinder/game/playback"
)

const (
	WorldCity = "city"
	WorldMaze = "maze"

	// Validation constants
	MinTickMS       = 1
	MaxTickMS       = 5000
	MinCellSize     = 4
	MaxCellSize     = 64
	MaxStepsPerCall = 1000

	DefaultTickMS       = 100
	DefaultCityCellSize = 20
	DefaultMazeCellSize = 16
	WebSocketBufferSize = 256
)

// ScenarioConfig describes one simulation, loaded from JSON
type ScenarioConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Algorithm   string `json:"algorithm"`
	World       string `json:"world"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	CellSize    int    `json:"cell_size,omitempty"`

	Start grid.Cell  `json:"start"`
	Goal  *grid.Cell `json:"goal,omitempty"`

	// Obstacles is the number of obstacles scattered over road cells
	Obstacles int `json:"obstacles,omitempty"`
	// Seed drives obstacle placement and maze carving; 0 picks a random seed
	Seed int64 `json:"seed,omitempty"`

	Movement string  `json:"movement,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
	TickMS   int     `json:"tick_ms,omitempty"`

	// Layout replaces the procedural city when set
	Layout    []string     `json:"layout,omitempty"`
	Buildings []grid.Block `json:"buildings,omitempty"`
	Exits     []grid.Cell  `json:"exits,omitempty"`
}

// MarkerKind classifies a labelled cell
type MarkerKind string

const (
	MarkerBuilding MarkerKind = "building"
	MarkerExit     MarkerKind = "exit"
	MarkerGoal     MarkerKind = "goal"
)

// Marker is a labelled cell drawn on top of the grid
type Marker struct {
	Kind  MarkerKind `json:"kind"`
	Label string     `json:"label"`
	Cell  grid.Cell  `json:"cell"`
}

// Snapshot is the serialisable view of a simulation
type Snapshot struct {
	Scenario  string `json:"scenario"`
	Algorithm string `json:"algorithm"`
	World     string `json:"world"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CellSize  int    `json:"cell_size"`

	Rows    []string       `json:"rows"`
	State   playback.State `json:"state"`
	Outcome string         `json:"outcome,omitempty"`
	Agent   playback.Agent `json:"agent"`
	Goal    *grid.Cell     `json:"goal,omitempty"`
	Trace   []grid.Cell    `json:"trace"`
	Path    []grid.Cell    `json:"path"`
	Markers []Marker       `json:"markers"`

	Tick     int `json:"tick"`
	Searches int `json:"searches"`
}

// CellInfo describes a single cell for inspection tools
type CellInfo struct {
	Cell       grid.Cell    `json:"cell"`
	Terrain    grid.Terrain `json:"terrain"`
	Passable   bool         `json:"passable"`
	Selectable bool         `json:"selectable"`
	InTrace    bool         `json:"in_trace"`
	OnPath     bool         `json:"on_path"`
	Label      string       `json:"label,omitempty"`
}
