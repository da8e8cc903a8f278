package service

import (
	"context"

	"github.com/wricardo/mcp-training/pathfinder/game/engine"
	"github.com/wricardo/mcp-training/pathfinder/game/grid"
)

// SimulationService defines all simulation operations
type SimulationService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Simulation Operations
	SelectGoal(ctx context.Context, sessionID string, cell grid.Cell) (*GoalResult, error)
	Step(ctx context.Context, sessionID string, ticks int) (*StepResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	SetAutoplay(ctx context.Context, sessionID string, enabled bool) (*SessionInfo, error)
	AdvanceAutoplay(ctx context.Context) map[string]*engine.Snapshot

	// Simulation State
	GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	DescribeCell(ctx context.Context, sessionID string, cell grid.Cell) (*engine.CellInfo, error)
	ListAlgorithms(ctx context.Context) []AlgorithmInfo

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.ScenarioConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.ScenarioConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.ScenarioConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.ScenarioConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles scenario loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.ScenarioConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.ScenarioConfig
	SaveConfig(name string, config *engine.ScenarioConfig) error
}
