package service

import (
	"sync"
	"time"

	"github.com/wricardo/mcp-training/pathfinder/game/engine"
	"github.com/wricardo/mcp-training/pathfinder/game/grid"
)

// SessionInfo provides information about a simulation session
type SessionInfo struct {
	ID             string                 `json:"id"`
	ConfigName     string                 `json:"config_name"`
	CreatedAt      time.Time              `json:"created_at"`
	LastAccessedAt time.Time              `json:"last_accessed_at"`
	Autoplay       bool                   `json:"autoplay"`
	Snapshot       *engine.Snapshot       `json:"snapshot"`
	Config         *engine.ScenarioConfig `json:"config"`
}

// GoalResult contains the result of a goal selection
type GoalResult struct {
	Accepted bool             `json:"accepted"`
	Goal     grid.Cell        `json:"goal"`
	Message  string           `json:"message"`
	Snapshot *engine.Snapshot `json:"snapshot"`
}

// StepResult contains the result of advancing a session by several ticks
type StepResult struct {
	RequestedTicks int              `json:"requested_ticks"`
	TicksExecuted  int              `json:"ticks_executed"`
	Events         map[string]int   `json:"events"`
	StoppedReason  string           `json:"stopped_reason,omitempty"`
	Truncated      bool             `json:"truncated,omitempty"`
	Limit          int              `json:"limit,omitempty"`
	Snapshot       *engine.Snapshot `json:"snapshot"`
}

// ConfigInfo provides information about a scenario configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Algorithm   string `json:"algorithm"`
	World       string `json:"world"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// AlgorithmInfo describes a search strategy
type AlgorithmInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Session represents an active simulation. Callers hold the session lock
// while touching Simulation or Autoplay.
type Session struct {
	ID             string
	ConfigID       string
	Simulation     *engine.Simulation
	Config         *engine.ScenarioConfig
	Autoplay       bool
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }
