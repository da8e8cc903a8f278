package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/wricardo/mcp-training/pathfinder/game/engine"
	"github.com/wricardo/mcp-training/pathfinder/game/grid"
	"github.com/wricardo/mcp-training/pathfinder/game/playback"
	"github.com/wricardo/mcp-training/pathfinder/game/search"
)

var ErrInvalidTicks = errors.New("ticks must be positive")

// simulationServiceImpl implements the SimulationService interface
type simulationServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewSimulationService creates a new simulation service instance
func NewSimulationService(sessions SessionManager, configs ConfigManager) SimulationService {
	return &simulationServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given scenario name, used for consistent API responses
func (s *simulationServiceImpl) getConfigID(sess *Session) string {
	if sess.ConfigID != "" {
		return sess.ConfigID
	}
	if availableConfigs, err := s.configs.ListConfigs(); err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == sess.Config.Name {
				return cfg.ConfigID
			}
		}
	}
	if sess.Config.Name == "" {
		return "default"
	}
	return sess.Config.Name
}

// info builds a SessionInfo; the caller holds the session lock
func (s *simulationServiceImpl) info(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Autoplay:       sess.Autoplay,
		Snapshot:       sess.Simulation.Snapshot(),
		Config:         sess.Config,
	}
}

// lookup fetches a session and refreshes its access time
func (s *simulationServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// CreateSession creates a new simulation session
func (s *simulationServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.ScenarioConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, engine.ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", engine.ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", engine.ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if configName != "" {
		sess.ConfigID = configName
	}

	sess.Lock()
	defer sess.Unlock()
	return s.info(sess), nil
}

// GetSession retrieves session information
func (s *simulationServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return s.info(sess), nil
}

// ListSessions returns all active sessions ordered by creation time
func (s *simulationServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		sess.Lock()
		result = append(result, s.info(sess))
		sess.Unlock()
	}

	return result, nil
}

// DeleteSession removes a session
func (s *simulationServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// SelectGoal starts a new search toward cell from the agent's present cell
func (s *simulationServiceImpl) SelectGoal(ctx context.Context, sessionID string, cell grid.Cell) (*GoalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	result := &GoalResult{Goal: cell}
	if sess.Simulation.SelectGoal(cell) {
		result.Accepted = true
		result.Message = fmt.Sprintf("Searching for a route to %s", cell)
	} else {
		result.Message = rejectionMessage(sess.Simulation, cell)
	}
	result.Snapshot = sess.Simulation.Snapshot()
	return result, nil
}

func rejectionMessage(sim *engine.Simulation, cell grid.Cell) string {
	t, err := sim.Grid().TerrainAt(cell)
	if err != nil {
		return fmt.Sprintf("Goal %s is outside the grid", cell)
	}
	if sim.Config().World == engine.WorldMaze {
		return fmt.Sprintf("Goal %s is not a maze exit", cell)
	}
	return fmt.Sprintf("Goal %s is %s and cannot be reached", cell, t)
}

// Step advances a session by up to ticks ticks, stopping early once the
// simulation has nothing left to do
func (s *simulationServiceImpl) Step(ctx context.Context, sessionID string, ticks int) (*StepResult, error) {
	if ticks <= 0 {
		return nil, ErrInvalidTicks
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	result := &StepResult{
		RequestedTicks: ticks,
		Events:         map[string]int{},
	}
	if ticks > engine.MaxStepsPerCall {
		ticks = engine.MaxStepsPerCall
		result.Truncated = true
		result.Limit = engine.MaxStepsPerCall
	}

	ctrl := sess.Simulation.Controller()
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			result.StoppedReason = "cancelled"
			break
		}
		if ctrl.State() == playback.IdleAtGoal {
			result.StoppedReason = "idle"
			break
		}

		ev := sess.Simulation.Tick()
		result.TicksExecuted++
		result.Events[ev.String()]++

		if ev == playback.EventArrived || ev == playback.EventNoRoute {
			result.StoppedReason = ev.String()
			break
		}
	}

	result.Snapshot = sess.Simulation.Snapshot()
	return result, nil
}

// Reset rebuilds the session's simulation from its scenario
func (s *simulationServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	sim, err := engine.NewSimulation(sess.Config, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to reset session: %w", err)
	}
	sess.Simulation = sim
	return sim.Snapshot(), nil
}

// SetAutoplay toggles background ticking for a session
func (s *simulationServiceImpl) SetAutoplay(ctx context.Context, sessionID string, enabled bool) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	sess.Autoplay = enabled
	return s.info(sess), nil
}

// AdvanceAutoplay ticks every autoplay session once and returns the
// snapshots of the sessions that did work
func (s *simulationServiceImpl) AdvanceAutoplay(ctx context.Context) map[string]*engine.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	updated := make(map[string]*engine.Snapshot)
	for _, sess := range s.sessions.List() {
		sess.Lock()
		if sess.Autoplay && sess.Simulation.Controller().State() != playback.IdleAtGoal {
			sess.Simulation.Tick()
			updated[sess.ID] = sess.Simulation.Snapshot()
		}
		sess.Unlock()
	}
	return updated
}

// GetSnapshot returns the current view of a session
func (s *simulationServiceImpl) GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return sess.Simulation.Snapshot(), nil
}

// DescribeCell reports the terrain and search status of one cell
func (s *simulationServiceImpl) DescribeCell(ctx context.Context, sessionID string, cell grid.Cell) (*engine.CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return sess.Simulation.DescribeCell(cell)
}

// ListAlgorithms returns the known search strategies
func (s *simulationServiceImpl) ListAlgorithms(ctx context.Context) []AlgorithmInfo {
	var result []AlgorithmInfo
	for _, alg := range search.Algorithms() {
		result = append(result, AlgorithmInfo{ID: string(alg), Description: alg.Description()})
	}
	return result
}

// ListConfigs returns all available scenarios
func (s *simulationServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific scenario
func (s *simulationServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.ScenarioConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a scenario
func (s *simulationServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.ScenarioConfig) error {
	return s.configs.SaveConfig(configName, config)
}
