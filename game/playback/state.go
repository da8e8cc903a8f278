package playback

import (
	"encoding/json"
	"fmt"
	"strings"
)

// State is the controller's position in the search/follow cycle
type State int

const (
	Searching State = iota
	FollowingPath
	IdleAtGoal
)

func (s State) String() string {
	switch s {
	case Searching:
		return "searching"
	case FollowingPath:
		return "following_path"
	case IdleAtGoal:
		return "idle_at_goal"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, candidate := range []State{Searching, FollowingPath, IdleAtGoal} {
		if candidate.String() == name {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", name)
}

// Movement selects how the agent advances along a path
type Movement int

const (
	// GridSnapped jumps one path cell per tick
	GridSnapped Movement = iota
	// Continuous glides a fixed pixel distance per tick toward the next cell centre
	Continuous
)

func (m Movement) String() string {
	if m == Continuous {
		return "continuous"
	}
	return "grid"
}

// ParseMovement accepts "grid" and "continuous"
func ParseMovement(s string) (Movement, error) {
	switch strings.ToLower(s) {
	case "", "grid":
		return GridSnapped, nil
	case "continuous":
		return Continuous, nil
	}
	return GridSnapped, fmt.Errorf("unknown movement %q", s)
}

// Event reports what a single Tick did
type Event int

const (
	EventIdle Event = iota
	EventExpanded
	EventPathFound
	EventNoRoute
	EventMoved
	EventArrived
)

var eventNames = []string{"idle", "expanded", "path_found", "no_route", "moved", "arrived"}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("event(%d)", int(e))
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, candidate := range eventNames {
		if candidate == name {
			*e = Event(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event %q", name)
}
