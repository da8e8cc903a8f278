package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/wricardo/mcp-training/pathfinder/game/config"
	"github.com/wricardo/mcp-training/pathfinder/game/engine"
	"github.com/wricardo/mcp-training/pathfinder/game/grid"
	"github.com/wricardo/mcp-training/pathfinder/game/playback"
	"github.com/wricardo/mcp-training/pathfinder/game/service"
	"github.com/wricardo/mcp-training/pathfinder/game/session"
	"github.com/wricardo/mcp-training/pathfinder/transport/websocket"
)

// MockSimulationService implements service.SimulationService for testing
type MockSimulationService struct {
	CreateSessionFunc   func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc      func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc    func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc   func(ctx context.Context, sessionID string) error
	SelectGoalFunc      func(ctx context.Context, sessionID string, cell grid.Cell) (*service.GoalResult, error)
	StepFunc            func(ctx context.Context, sessionID string, ticks int) (*service.StepResult, error)
	ResetFunc           func(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	SetAutoplayFunc     func(ctx context.Context, sessionID string, enabled bool) (*service.SessionInfo, error)
	GetSnapshotFunc     func(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	DescribeCellFunc    func(ctx context.Context, sessionID string, cell grid.Cell) (*engine.CellInfo, error)
	ListConfigsFunc     func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc      func(ctx context.Context, configName string) (*engine.ScenarioConfig, error)
	SaveConfigFunc      func(ctx context.Context, configName string, config *engine.ScenarioConfig) error
	AdvanceAutoplayFunc func(ctx context.Context) map[string]*engine.Snapshot
}

func mockSnapshot() *engine.Snapshot {
	return &engine.Snapshot{Scenario: "mock", Algorithm: "informed", State: playback.Searching}
}

func (m *MockSimulationService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{ID: "ab12", ConfigName: configName, CreatedAt: time.Now(), Snapshot: mockSnapshot()}, nil
}

func (m *MockSimulationService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{ID: sessionID, ConfigName: "test-config", CreatedAt: time.Now(), Snapshot: mockSnapshot()}, nil
}

func (m *MockSimulationService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockSimulationService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockSimulationService) SelectGoal(ctx context.Context, sessionID string, cell grid.Cell) (*service.GoalResult, error) {
	if m.SelectGoalFunc != nil {
		return m.SelectGoalFunc(ctx, sessionID, cell)
	}
	return &service.GoalResult{Accepted: true, Goal: cell, Snapshot: mockSnapshot()}, nil
}

func (m *MockSimulationService) Step(ctx context.Context, sessionID string, ticks int) (*service.StepResult, error) {
	if m.StepFunc != nil {
		return m.StepFunc(ctx, sessionID, ticks)
	}
	return &service.StepResult{RequestedTicks: ticks, TicksExecuted: ticks, Events: map[string]int{}, Snapshot: mockSnapshot()}, nil
}

func (m *MockSimulationService) Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return mockSnapshot(), nil
}

func (m *MockSimulationService) SetAutoplay(ctx context.Context, sessionID string, enabled bool) (*service.SessionInfo, error) {
	if m.SetAutoplayFunc != nil {
		return m.SetAutoplayFunc(ctx, sessionID, enabled)
	}
	return &service.SessionInfo{ID: sessionID, Autoplay: enabled, Snapshot: mockSnapshot()}, nil
}

func (m *MockSimulationService) AdvanceAutoplay(ctx context.Context) map[string]*engine.Snapshot {
	if m.AdvanceAutoplayFunc != nil {
		return m.AdvanceAutoplayFunc(ctx)
	}
	return nil
}

func (m *MockSimulationService) GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	if m.GetSnapshotFunc != nil {
		return m.GetSnapshotFunc(ctx, sessionID)
	}
	return mockSnapshot(), nil
}

func (m *MockSimulationService) DescribeCell(ctx context.Context, sessionID string, cell grid.Cell) (*engine.CellInfo, error) {
	if m.DescribeCellFunc != nil {
		return m.DescribeCellFunc(ctx, sessionID, cell)
	}
	return &engine.CellInfo{Cell: cell, Terrain: grid.Road, Passable: true}, nil
}

func (m *MockSimulationService) ListAlgorithms(ctx context.Context) []service.AlgorithmInfo {
	return []service.AlgorithmInfo{{ID: "informed", Description: "A*"}}
}

func (m *MockSimulationService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockSimulationService) LoadConfig(ctx context.Context, configName string) (*engine.ScenarioConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return engine.DefaultScenario(), nil
}

func (m *MockSimulationService) SaveConfig(ctx context.Context, configName string, config *engine.ScenarioConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Test helpers

func setupTestServer(svc service.SimulationService) *Server {
	return NewServer(svc, websocket.NewHub())
}

func makeRequest(method, url string, body interface{}) *http.Request {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, url, reqBody)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockSimulationService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "Create session with default config",
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "ab12" {
					t.Errorf("Expected session ID ab12, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with specific config and autoplay",
			requestBody: map[string]interface{}{"config_id": "maze", "autoplay": true},
			setupMock: func(m *MockSimulationService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "maze" {
						t.Errorf("Expected config 'maze', got %s", configName)
					}
					return &service.SessionInfo{ID: "cd34", ConfigName: configName, Snapshot: mockSnapshot()}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if !resp.Autoplay {
					t.Error("Expected autoplay to be enabled")
				}
			},
		},
		{
			name: "Unknown config",
			setupMock: func(m *MockSimulationService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: 'nope'", engine.ErrConfigNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "Handle service error",
			setupMock: func(m *MockSimulationService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockSimulationService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			w := serve(setupTestServer(mockService), makeRequest("POST", "/api/sessions", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	mockService := &MockSimulationService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "aaaa", CreatedAt: now.Add(-3 * time.Minute), LastAccessedAt: now.Add(-1 * time.Minute)},
				{ID: "bbbb", CreatedAt: now.Add(-2 * time.Minute), LastAccessedAt: now.Add(-3 * time.Minute)},
				{ID: "cccc", CreatedAt: now.Add(-1 * time.Minute), LastAccessedAt: now.Add(-2 * time.Minute)},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	tests := []struct {
		query    string
		expected []string
		total    int
	}{
		{"", []string{"aaaa", "cccc", "bbbb"}, 3},
		{"?sort=created&order=asc", []string{"aaaa", "bbbb", "cccc"}, 3},
		{"?sort=created&limit=2", []string{"cccc", "bbbb"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := serve(server, makeRequest("GET", "/api/sessions"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			if resp.Total != tt.total || resp.Count != len(tt.expected) {
				t.Errorf("Expected count=%d total=%d, got count=%d total=%d", len(tt.expected), tt.total, resp.Count, resp.Total)
			}
			for i, id := range tt.expected {
				if resp.Sessions[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, resp.Sessions[i].ID)
				}
			}
		})
	}
}

func TestSessionNotFound(t *testing.T) {
	notFound := fmt.Errorf("session not found: %w", session.ErrSessionNotFound)
	mockService := &MockSimulationService{
		GetSessionFunc:    func(ctx context.Context, id string) (*service.SessionInfo, error) { return nil, notFound },
		DeleteSessionFunc: func(ctx context.Context, id string) error { return session.ErrSessionNotFound },
		GetSnapshotFunc:   func(ctx context.Context, id string) (*engine.Snapshot, error) { return nil, notFound },
		StepFunc: func(ctx context.Context, id string, ticks int) (*service.StepResult, error) {
			return nil, notFound
		},
		ResetFunc: func(ctx context.Context, id string) (*engine.Snapshot, error) { return nil, notFound },
		SelectGoalFunc: func(ctx context.Context, id string, cell grid.Cell) (*service.GoalResult, error) {
			return nil, notFound
		},
	}
	server := setupTestServer(mockService)

	requests := []*http.Request{
		makeRequest("GET", "/api/sessions/zzzz", nil),
		makeRequest("DELETE", "/api/sessions/zzzz", nil),
		makeRequest("GET", "/api/sessions/zzzz/state", nil),
		makeRequest("POST", "/api/sessions/zzzz/step", map[string]int{"ticks": 3}),
		makeRequest("POST", "/api/sessions/zzzz/reset", nil),
		makeRequest("POST", "/api/sessions/zzzz/goal", map[string]int{"x": 1, "y": 1}),
	}

	for _, req := range requests {
		t.Run(req.Method+" "+req.URL.Path, func(t *testing.T) {
			w := serve(server, req)
			if w.Code != http.StatusNotFound {
				t.Errorf("Expected status 404, got %d", w.Code)
			}
			var resp map[string]string
			parseResponse(t, w, &resp)
			if resp["error"] == "" {
				t.Error("Expected an error message")
			}
		})
	}
}

func TestSelectGoal(t *testing.T) {
	var got grid.Cell
	mockService := &MockSimulationService{
		SelectGoalFunc: func(ctx context.Context, id string, cell grid.Cell) (*service.GoalResult, error) {
			got = cell
			return &service.GoalResult{Accepted: cell.X != 0, Goal: cell, Snapshot: mockSnapshot()}, nil
		},
	}
	server := setupTestServer(mockService)

	t.Run("accepted", func(t *testing.T) {
		w := serve(server, makeRequest("POST", "/api/sessions/ab12/goal", map[string]int{"x": 7, "y": 3}))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if got != (grid.Cell{X: 7, Y: 3}) {
			t.Errorf("Expected goal (7,3), got %s", got)
		}
		var resp service.GoalResult
		parseResponse(t, w, &resp)
		if !resp.Accepted {
			t.Error("Expected goal to be accepted")
		}
	})

	t.Run("rejected is not an error", func(t *testing.T) {
		w := serve(server, makeRequest("POST", "/api/sessions/ab12/goal", map[string]int{"x": 0, "y": 0}))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		var resp service.GoalResult
		parseResponse(t, w, &resp)
		if resp.Accepted {
			t.Error("Expected goal to be rejected")
		}
	})

	t.Run("missing coordinates", func(t *testing.T) {
		w := serve(server, makeRequest("POST", "/api/sessions/ab12/goal", map[string]int{"x": 4}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/sessions/ab12/goal", strings.NewReader("{x:"))
		w := serve(server, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestStep(t *testing.T) {
	var gotTicks int
	mockService := &MockSimulationService{
		StepFunc: func(ctx context.Context, id string, ticks int) (*service.StepResult, error) {
			gotTicks = ticks
			if ticks <= 0 {
				return nil, service.ErrInvalidTicks
			}
			return &service.StepResult{RequestedTicks: ticks, TicksExecuted: ticks, Snapshot: mockSnapshot()}, nil
		},
	}
	server := setupTestServer(mockService)

	w := serve(server, makeRequest("POST", "/api/sessions/ab12/step", nil))
	if w.Code != http.StatusOK || gotTicks != 1 {
		t.Errorf("Expected a default of 1 tick, got status %d ticks %d", w.Code, gotTicks)
	}

	w = serve(server, makeRequest("POST", "/api/sessions/ab12/step", map[string]int{"ticks": 25}))
	if w.Code != http.StatusOK || gotTicks != 25 {
		t.Errorf("Expected 25 ticks, got status %d ticks %d", w.Code, gotTicks)
	}

	w = serve(server, makeRequest("POST", "/api/sessions/ab12/step", map[string]int{"ticks": -2}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for negative ticks, got %d", w.Code)
	}
}

func TestAutoplay(t *testing.T) {
	server := setupTestServer(&MockSimulationService{})

	w := serve(server, makeRequest("POST", "/api/sessions/ab12/autoplay", map[string]bool{"enabled": true}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp service.SessionInfo
	parseResponse(t, w, &resp)
	if !resp.Autoplay {
		t.Error("Expected autoplay enabled")
	}

	w = serve(server, makeRequest("POST", "/api/sessions/ab12/autoplay", map[string]string{}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without enabled, got %d", w.Code)
	}
}

func TestDescribeCell(t *testing.T) {
	mockService := &MockSimulationService{
		DescribeCellFunc: func(ctx context.Context, id string, cell grid.Cell) (*engine.CellInfo, error) {
			if cell.X > 10 {
				return nil, fmt.Errorf("%w: %s", grid.ErrOutOfBounds, cell)
			}
			return &engine.CellInfo{Cell: cell, Terrain: grid.Hospital, Label: "HOSPITAL"}, nil
		},
	}
	server := setupTestServer(mockService)

	w := serve(server, makeRequest("GET", "/api/sessions/ab12/cells/3/4", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var info engine.CellInfo
	parseResponse(t, w, &info)
	if info.Terrain != grid.Hospital || info.Cell != (grid.Cell{X: 3, Y: 4}) {
		t.Errorf("Unexpected cell info %+v", info)
	}

	w = serve(server, makeRequest("GET", "/api/sessions/ab12/cells/99/4", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for out of bounds, got %d", w.Code)
	}

	w = serve(server, makeRequest("GET", "/api/sessions/ab12/cells/a/4", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for non-integer, got %d", w.Code)
	}
}

func TestConfigs(t *testing.T) {
	var saved string
	mockService := &MockSimulationService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{{ConfigID: "maze", World: "maze"}}, nil
		},
		LoadConfigFunc: func(ctx context.Context, name string) (*engine.ScenarioConfig, error) {
			if name != "maze" {
				return nil, fmt.Errorf("%w: '%s'", engine.ErrConfigNotFound, name)
			}
			return &engine.ScenarioConfig{Name: "maze", World: engine.WorldMaze}, nil
		},
		SaveConfigFunc: func(ctx context.Context, name string, cfg *engine.ScenarioConfig) error {
			if cfg.Width < grid.MinGridSize {
				return fmt.Errorf("%w: width", engine.ErrInvalidConfig)
			}
			saved = name
			return nil
		},
	}
	server := setupTestServer(mockService)

	w := serve(server, makeRequest("GET", "/api/configs", nil))
	var list []*service.ConfigInfo
	parseResponse(t, w, &list)
	if len(list) != 1 || list[0].ConfigID != "maze" {
		t.Errorf("Unexpected config list %+v", list)
	}

	w = serve(server, makeRequest("GET", "/api/configs/maze.json", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	w = serve(server, makeRequest("GET", "/api/configs/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	body := engine.DefaultScenario()
	body.Name = "custom"
	w = serve(server, makeRequest("POST", "/api/configs", body))
	if w.Code != http.StatusCreated || saved != "custom" {
		t.Errorf("Expected config saved as custom, got status %d name %q", w.Code, saved)
	}

	body.Width = 1
	w = serve(server, makeRequest("POST", "/api/configs", body))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid config, got %d", w.Code)
	}
}

func TestWebSocketErrors(t *testing.T) {
	mockService := &MockSimulationService{
		GetSessionFunc: func(ctx context.Context, id string) (*service.SessionInfo, error) {
			return nil, fmt.Errorf("session not found: %w", session.ErrSessionNotFound)
		},
	}
	server := setupTestServer(mockService)

	w := serve(server, httptest.NewRequest("GET", "/ws", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without session, got %d", w.Code)
	}

	w = serve(server, httptest.NewRequest("GET", "/ws?session=zzzz", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown session, got %d", w.Code)
	}

	w = serve(NewServer(mockService, nil), httptest.NewRequest("GET", "/ws?session=zzzz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 without a hub, got %d", w.Code)
	}
}

// newIntegrationServer wires the real session, config and service stack
func newIntegrationServer(t *testing.T) (*httptest.Server, *websocket.Hub) {
	t.Helper()

	dir := t.TempDir()
	scenario := &engine.ScenarioConfig{
		Name:        "small",
		Description: "small city",
		Algorithm:   "uninformed",
		World:       engine.WorldCity,
		Width:       9,
		Height:      6,
		Start:       grid.Cell{X: 0, Y: 0},
		Goal:        &grid.Cell{X: 8, Y: 5},
		Seed:        1,
		Buildings:   []grid.Block{},
	}
	data, _ := json.Marshal(scenario)
	if err := os.WriteFile(filepath.Join(dir, "small.json"), data, 0644); err != nil {
		t.Fatalf("Failed to write scenario: %v", err)
	}

	configs, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	svc := service.NewSimulationService(session.NewManager(), configs)
	ts := httptest.NewServer(NewServer(svc, hub))
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts, hub
}

func postJSON(t *testing.T, url string, body interface{}, out interface{}) int {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func TestIntegration_SearchFollowAndBroadcast(t *testing.T) {
	ts, hub := newIntegrationServer(t)

	var created service.SessionInfo
	if status := postJSON(t, ts.URL+"/api/sessions", map[string]string{"config_id": "small"}, &created); status != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", status)
	}
	if created.Snapshot.State != playback.Searching {
		t.Fatalf("Expected a searching session, got %s", created.Snapshot.State)
	}

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?session=" + created.ID
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount(created.ID) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	var step service.StepResult
	if status := postJSON(t, ts.URL+"/api/sessions/"+created.ID+"/step", map[string]int{"ticks": 500}, &step); status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if step.StoppedReason != "arrived" {
		t.Errorf("Expected the agent to arrive, stopped on %q", step.StoppedReason)
	}
	if step.Snapshot.Agent.Cell != (grid.Cell{X: 8, Y: 5}) {
		t.Errorf("Expected agent at (8,5), got %s", step.Snapshot.Agent.Cell)
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var message websocket.Message
	if err := conn.ReadJSON(&message); err != nil {
		t.Fatalf("Failed to read broadcast: %v", err)
	}
	if message.Snapshot == nil || message.Snapshot.State != playback.IdleAtGoal {
		t.Errorf("Expected an idle snapshot over the socket, got %+v", message.Snapshot)
	}

	var goal service.GoalResult
	postJSON(t, ts.URL+"/api/sessions/"+created.ID+"/goal", map[string]int{"x": 0, "y": 0}, &goal)
	if !goal.Accepted || goal.Snapshot.State != playback.Searching {
		t.Errorf("Expected a new search toward (0,0), got %+v", goal)
	}

	var missing map[string]string
	if status := postJSON(t, ts.URL+"/api/sessions/zzzz/step", map[string]int{"ticks": 1}, &missing); status != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", status)
	}
}
