package grid

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Terrain is the closed set of codes a cell can hold
type Terrain uint8

const (
	Road Terrain = iota
	Building
	Obstacle
	House
	School
	Hospital
	Park
	Wall
	Open
)

const (
	// Validation constants
	MinGridSize = 3
	MaxGridSize = 200

	// MaxObstacleAttemptsFactor bounds random draws per requested obstacle
	MaxObstacleAttemptsFactor = 20
)

var terrainChars = map[Terrain]byte{
	Road:     'R',
	Building: 'B',
	Obstacle: 'X',
	House:    'H',
	School:   'S',
	Hospital: 'M',
	Park:     'P',
	Wall:     'W',
	Open:     'O',
}

var terrainNames = map[Terrain]string{
	Road:     "road",
	Building: "building",
	Obstacle: "obstacle",
	House:    "house",
	School:   "school",
	Hospital: "hospital",
	Park:     "park",
	Wall:     "wall",
	Open:     "open",
}

// Char returns the layout character for the terrain
func (t Terrain) Char() byte {
	if c, ok := terrainChars[t]; ok {
		return c
	}
	return '?'
}

// String returns the lower-case terrain name
func (t Terrain) String() string {
	if name, ok := terrainNames[t]; ok {
		return name
	}
	return fmt.Sprintf("terrain(%d)", uint8(t))
}

// Passable reports whether search may traverse the terrain
func (t Terrain) Passable() bool {
	return t == Road || t == Open
}

// IsBuilding reports whether the terrain is one of the named city blocks
func (t Terrain) IsBuilding() bool {
	switch t {
	case House, School, Hospital, Park:
		return true
	}
	return false
}

// MarshalJSON encodes the terrain by name
func (t Terrain) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a terrain name
func (t *Terrain) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseTerrainName(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTerrainName maps a terrain name (case-insensitive) to its code
func ParseTerrainName(name string) (Terrain, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for t, n := range terrainNames {
		if n == lower {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown terrain %q", name)
}

// ParseTerrainChar maps a layout character to its code
func ParseTerrainChar(c byte) (Terrain, bool) {
	for t, ch := range terrainChars {
		if ch == c {
			return t, true
		}
	}
	return 0, false
}

// Cell is a 0-indexed grid coordinate
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats the cell as (x,y)
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns the cell offset by a direction
func (c Cell) Add(d Direction) Cell {
	return Cell{X: c.X + d.DX, Y: c.Y + d.DY}
}

// Direction is an orthogonal unit offset; y grows downward
type Direction struct {
	DX, DY int
	Name   string
}

var (
	Up    = Direction{DX: 0, DY: -1, Name: "up"}
	Right = Direction{DX: 1, DY: 0, Name: "right"}
	Down  = Direction{DX: 0, DY: 1, Name: "down"}
	Left  = Direction{DX: -1, DY: 0, Name: "left"}
)

// Clockwise is the up, right, down, left visiting order
var Clockwise = []Direction{Up, Right, Down, Left}
