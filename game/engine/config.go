package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/pathfinder/game/grid"
	"github.com/wricardo/mcp-training/pathfinder/game/playback"
	"github.com/wricardo/mcp-training/pathfinder/game/search"
)

var (
	ErrInvalidConfig  = errors.New("config validation")
	ErrConfigNotFound = errors.New("config not found")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// ValidateScenario validates a scenario for correctness
func ValidateScenario(config *ScenarioConfig) error {
	if config == nil {
		return invalid("config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return invalid("name is required")
	}
	if config.Description == "" {
		return invalid("description is required")
	}

	if _, err := search.ParseAlgorithm(config.Algorithm); err != nil {
		return invalid("algorithm must be one of %v, got %q", search.Algorithms(), config.Algorithm)
	}
	if config.World != WorldCity && config.World != WorldMaze {
		return invalid("world must be %q or %q, got %q", WorldCity, WorldMaze, config.World)
	}
	if _, err := playback.ParseMovement(config.Movement); err != nil {
		return invalid("movement must be \"grid\" or \"continuous\", got %q", config.Movement)
	}

	// Validate dimensions
	if config.Width < grid.MinGridSize || config.Width > grid.MaxGridSize {
		return invalid("width must be between %d and %d, got %d", grid.MinGridSize, grid.MaxGridSize, config.Width)
	}
	if config.Height < grid.MinGridSize || config.Height > grid.MaxGridSize {
		return invalid("height must be between %d and %d, got %d", grid.MinGridSize, grid.MaxGridSize, config.Height)
	}
	if config.CellSize != 0 && (config.CellSize < MinCellSize || config.CellSize > MaxCellSize) {
		return invalid("cell_size must be between %d and %d, got %d", MinCellSize, MaxCellSize, config.CellSize)
	}
	if config.TickMS != 0 && (config.TickMS < MinTickMS || config.TickMS > MaxTickMS) {
		return invalid("tick_ms must be between %d and %d, got %d", MinTickMS, MaxTickMS, config.TickMS)
	}
	if config.Speed < 0 {
		return invalid("speed must not be negative, got %v", config.Speed)
	}
	if config.Obstacles < 0 || config.Obstacles >= config.Width*config.Height {
		return invalid("obstacles must be between 0 and %d, got %d", config.Width*config.Height-1, config.Obstacles)
	}

	inBounds := func(c grid.Cell) bool {
		return c.X >= 0 && c.X < config.Width && c.Y >= 0 && c.Y < config.Height
	}

	if !inBounds(config.Start) {
		return invalid("start %s is outside the %dx%d grid", config.Start, config.Width, config.Height)
	}
	if config.Goal != nil && !inBounds(*config.Goal) {
		return invalid("goal %s is outside the %dx%d grid", *config.Goal, config.Width, config.Height)
	}

	switch config.World {
	case WorldMaze:
		s := config.Start
		if s.X%2 == 0 || s.Y%2 == 0 || s.X >= config.Width-1 || s.Y >= config.Height-1 {
			return invalid("maze start must have odd coordinates inside the border, got %s", s)
		}
		if len(config.Layout) > 0 || len(config.Buildings) > 0 {
			return invalid("maze scenarios cannot define layout or buildings")
		}
	case WorldCity:
		if len(config.Exits) > 0 {
			return invalid("exits are only valid for maze scenarios")
		}
	}

	for i, exit := range config.Exits {
		if !inBounds(exit) {
			return invalid("exit %d at %s is outside the grid", i+1, exit)
		}
	}

	for i, b := range config.Buildings {
		if !b.Kind.IsBuilding() {
			return invalid("building %d (%s) has kind %s, want house, school, hospital or park", i+1, b.Label, b.Kind)
		}
	}

	// Validate layout
	if len(config.Layout) > 0 {
		if len(config.Layout) != config.Height {
			return invalid("layout must have %d rows to match height, got %d", config.Height, len(config.Layout))
		}
		for i, row := range config.Layout {
			if len(row) != config.Width {
				return invalid("row %d must have %d characters to match width, got %d", i+1, config.Width, len(row))
			}
			for j := 0; j < len(row); j++ {
				t, ok := grid.ParseTerrainChar(row[j])
				if !ok {
					return invalid("invalid character '%c' at row %d, col %d", row[j], i+1, j+1)
				}
				if t == grid.Wall || t == grid.Open {
					return invalid("maze terrain '%c' at row %d, col %d in a city layout", row[j], i+1, j+1)
				}
			}
		}
	}

	return nil
}

// configDir returns the scenario directory, honouring CONFIG_DIR
func configDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return "configs"
}

// LoadScenario loads a scenario from a JSON file
func LoadScenario(filename string) (*ScenarioConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if dir := os.Getenv("CONFIG_DIR"); dir != "" && strings.HasPrefix(filename, "configs/") {
		configPath = filepath.Join(dir, strings.TrimPrefix(filename, "configs/"))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	return ParseScenario(data)
}

// ParseScenario decodes and validates a JSON scenario
func ParseScenario(data []byte) (*ScenarioConfig, error) {
	var config ScenarioConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateScenario(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadScenarioByName loads a scenario by name from the configs directory
func LoadScenarioByName(name string) (*ScenarioConfig, error) {
	// Add .json extension if not present
	if !strings.HasSuffix(name, ".json") {
		name = name + ".json"
	}

	configPath := filepath.Join(configDir(), name)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: '%s'", ErrConfigNotFound, name)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", name, err)
	}

	config, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", name, err)
	}

	return config, nil
}

// DefaultScenario returns the built-in informed city scenario
func DefaultScenario() *ScenarioConfig {
	return &ScenarioConfig{
		Name:        "informed",
		Description: "A* search across a 40x30 city with a continuously moving car",
		Algorithm:   string(search.Informed),
		World:       WorldCity,
		Width:       40,
		Height:      30,
		CellSize:    DefaultCityCellSize,
		Start:       grid.Cell{X: 1, Y: 1},
		Goal:        &grid.Cell{X: 36, Y: 25},
		Obstacles:   30,
		Movement:    playback.Continuous.String(),
		Speed:       playback.DefaultSpeed,
		TickMS:      16,
	}
}

// withDefaults fills the optional fields of a validated scenario
func (c ScenarioConfig) withDefaults() ScenarioConfig {
	if c.CellSize == 0 {
		c.CellSize = DefaultCityCellSize
		if c.World == WorldMaze {
			c.CellSize = DefaultMazeCellSize
		}
	}
	if c.TickMS == 0 {
		c.TickMS = DefaultTickMS
	}
	if c.Speed == 0 {
		c.Speed = playback.DefaultSpeed
	}
	return c
}
