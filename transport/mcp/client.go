package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/pathfinder/game/engine"
	"github.com/wricardo/mcp-training/pathfinder/game/service"
)

// Client is a thin MCP server that proxies every tool to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API at baseURL
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Pathfinding Simulator",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Pathfinding Simulator - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Each session is a grid world (a city or a maze) with one agent. Selecting a
goal starts a search from the agent's current cell; every tick expands one
cell until a route is found, then the agent follows it.

AVAILABLE TOOLS:
- create_session: Start a simulation from a scenario (informed, uninformed, maze)
- list_sessions: List active sessions
- get_state: Show the grid with trace, path, goal and agent
- select_goal: Pick a new goal cell
- step: Advance the simulation by a number of ticks
- reset_simulation: Rebuild the world from its scenario
- set_autoplay: Let the server tick the session in the background
- list_configs: List scenarios
- list_algorithms: List search algorithms
- describe_cell: Inspect one cell
- simulator_instructions: Full instructions and legend`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func cellProperties(what string) (map[string]interface{}, map[string]interface{}) {
	return map[string]interface{}{
			"type":        "integer",
			"description": fmt.Sprintf("Column of the %s (0 is the left edge)", what),
		}, map[string]interface{}{
			"type":        "integer",
			"description": fmt.Sprintf("Row of the %s (0 is the top edge)", what),
		}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new simulation session from a scenario",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Scenario to use (see list_configs); the server default when omitted",
				},
				"autoplay": map[string]interface{}{
					"type":        "boolean",
					"description": "Tick the session in the background",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active simulation sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_state",
		Description: "Get the current grid, search trace, path and agent position",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetState)

	goalX, goalY := cellProperties("goal")
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_goal",
		Description: "Select a goal cell. The search restarts from the agent's current cell.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x":          goalX,
				"y":          goalY,
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleSelectGoal)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "step",
		Description: fmt.Sprintf("Advance the simulation by up to n ticks (max %d per call)", engine.MaxStepsPerCall),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"ticks": map[string]interface{}{
					"type":        "integer",
					"description": "Number of ticks (default 1)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStep)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_simulation",
		Description: "Rebuild the session's world from its scenario",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_autoplay",
		Description: "Turn background ticking on or off for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"enabled": map[string]interface{}{
					"type":        "boolean",
					"description": "true to tick in the background",
				},
			},
			Required: []string{"session_id", "enabled"},
		},
	}, c.handleSetAutoplay)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available scenarios",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_algorithms",
		Description: "List the search algorithms",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListAlgorithms)

	cellX, cellY := cellProperties("cell")
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get the terrain and search status of one grid cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x":          cellX,
				"y":          cellY,
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "simulator_instructions",
		Description: "Get instructions, the grid legend and how the searches behave",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func sessionArg(args map[string]interface{}) (string, *mcp.CallToolResult) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if configID, _ := args["config_id"].(string); configID != "" {
		body["config_id"] = configID
	}
	if autoplay, _ := args["autoplay"].(bool); autoplay {
		body["autoplay"] = true
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		state := "unknown"
		if s.Snapshot != nil {
			state = s.Snapshot.State.String()
		}
		fmt.Fprintf(&result, "- %s (Scenario: %s, State: %s, Autoplay: %t, Created: %s)\n",
			s.ID, s.ConfigName, state, s.Autoplay, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var snap engine.Snapshot
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &snap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&snap)), nil
}

func (c *Client) handleSelectGoal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := sessionArg(args)
	if errResult != nil {
		return errResult, nil
	}

	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}

	var result service.GoalResult
	body := map[string]int{"x": x, "y": y}
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/goal", sessionID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGoalResult(&result)), nil
}

func (c *Client) handleStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := sessionArg(args)
	if errResult != nil {
		return errResult, nil
	}

	ticks, ok := intArg(args, "ticks")
	if !ok {
		ticks = 1
	}

	var result service.StepResult
	body := map[string]int{"ticks": ticks}
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/step", sessionID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStepResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var response struct {
		Message string           `json:"message"`
		State   *engine.Snapshot `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatSnapshot(response.State)), nil
}

func (c *Client) handleSetAutoplay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := sessionArg(args)
	if errResult != nil {
		return errResult, nil
	}

	enabled, ok := args["enabled"].(bool)
	if !ok {
		return mcp.NewToolResultError("enabled is a required boolean"), nil
	}

	var session service.SessionInfo
	body := map[string]bool{"enabled": enabled}
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/autoplay", sessionID), body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Autoplay for session %s: %t", session.ID, session.Autoplay)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Scenarios:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&result, "- %s: %s [%s, %s %dx%d]\n  %s\n",
			cfg.ConfigID, cfg.Name, cfg.Algorithm, cfg.World, cfg.Width, cfg.Height, cfg.Description)
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleListAlgorithms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var algorithms []service.AlgorithmInfo
	if err := c.apiCall(ctx, "GET", "/api/algorithms", nil, &algorithms); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Search Algorithms:\n\n")
	for _, alg := range algorithms {
		fmt.Fprintf(&result, "- %s: %s\n", alg.ID, alg.Description)
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := sessionArg(args)
	if errResult != nil {
		return errResult, nil
	}

	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}

	var info engine.CellInfo
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/cells/%d/%d", sessionID, x, y), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCellInfo(&info)), nil
}

func (c *Client) handleInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Pathfinding Simulator - Complete Instructions

WORLDS:
- city: roads with buildings (house, school, hospital, park) and scattered obstacles
- maze: a generated perfect maze; goals must be one of its exits

ALGORITHMS:
- informed (A*): expands the cell with the lowest cost plus Manhattan distance; shortest route
- uninformed (BFS): expands in rings around the start; shortest route, more cells explored
- maze (DFS): dives down one corridor at a time; finds a route, not necessarily the shortest

GRID LEGEND (get_state):
  R road      B building   X obstacle   H house    S school
  M hospital  P park       W wall       O open
  . explored  * path       G goal       C agent

HOW A TICK WORKS:
1. While searching, each tick expands exactly one cell and adds it to the trace.
2. When the goal is expanded the path is rebuilt and the agent starts following it.
3. While following, each tick moves the agent one cell (or a few pixels in
   continuous scenarios) along the path.
4. On arrival the session is idle until a new goal is selected.
5. If the frontier runs dry, or the goal is impassable, the search ends with
   no route and the agent stays where it is.

WORKFLOW:
1. list_configs, then create_session with a config_id
2. get_state to see the world
3. select_goal with x,y (0,0 is top-left)
4. step with a tick count (e.g. 200) or set_autoplay true
5. get_state or describe_cell to inspect the result

Selecting a goal while the agent is moving abandons the old route and searches
again from the agent's current cell.`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nScenario: %s\nAutoplay: %t\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Autoplay,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatSnapshot(session.Snapshot))
}

func formatSnapshot(snap *engine.Snapshot) string {
	if snap == nil {
		return "No simulation state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Scenario: %s | Algorithm: %s | World: %s %dx%d\n",
		snap.Scenario, snap.Algorithm, snap.World, snap.Width, snap.Height)
	fmt.Fprintf(&result, "State: %s | Agent: %s | Tick: %d | Searches: %d\n",
		snap.State, snap.Agent.Cell, snap.Tick, snap.Searches)

	goal := "none"
	if snap.Goal != nil {
		goal = snap.Goal.String()
	}
	fmt.Fprintf(&result, "Goal: %s | Explored: %d | Path: %d", goal, len(snap.Trace), len(snap.Path))
	if snap.Outcome != "" {
		fmt.Fprintf(&result, " | Last outcome: %s", snap.Outcome)
	}
	result.WriteString("\n\n")

	result.WriteString(engine.RenderASCII(snap))

	if len(snap.Markers) > 0 {
		result.WriteString("\nMarkers:\n")
		markers := append([]engine.Marker(nil), snap.Markers...)
		sort.SliceStable(markers, func(i, j int) bool { return markers[i].Kind < markers[j].Kind })
		for _, m := range markers {
			fmt.Fprintf(&result, "- %s %s at %s\n", m.Kind, m.Label, m.Cell)
		}
	}

	return result.String()
}

func formatGoalResult(result *service.GoalResult) string {
	var out strings.Builder
	if result.Accepted {
		fmt.Fprintf(&out, "Goal %s accepted. %s\n", result.Goal, result.Message)
	} else {
		fmt.Fprintf(&out, "Goal %s rejected. %s\n", result.Goal, result.Message)
	}
	if result.Snapshot != nil {
		fmt.Fprintf(&out, "State: %s | Agent: %s\n", result.Snapshot.State, result.Snapshot.Agent.Cell)
	}
	return out.String()
}

func formatStepResult(result *service.StepResult) string {
	var out strings.Builder

	fmt.Fprintf(&out, "Executed %d of %d ticks", result.TicksExecuted, result.RequestedTicks)
	if result.Truncated {
		fmt.Fprintf(&out, " (truncated to %d)", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&out, ", stopped: %s", result.StoppedReason)
	}
	out.WriteString("\n")

	if len(result.Events) > 0 {
		names := make([]string, 0, len(result.Events))
		for name := range result.Events {
			names = append(names, name)
		}
		sort.Strings(names)

		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%d", name, result.Events[name]))
		}
		fmt.Fprintf(&out, "Events: %s\n", strings.Join(parts, " "))
	}

	out.WriteString("\n")
	out.WriteString(formatSnapshot(result.Snapshot))
	return out.String()
}

func formatCellInfo(info *engine.CellInfo) string {
	var out strings.Builder
	fmt.Fprintf(&out, "Cell %s\n", info.Cell)
	fmt.Fprintf(&out, "Terrain: %s (%c)\n", info.Terrain, info.Terrain.Char())
	fmt.Fprintf(&out, "Passable: %t\n", info.Passable)
	fmt.Fprintf(&out, "Selectable as goal: %t\n", info.Selectable)
	fmt.Fprintf(&out, "Explored by current search: %t\n", info.InTrace)
	fmt.Fprintf(&out, "On current path: %t\n", info.OnPath)
	if info.Label != "" {
		fmt.Fprintf(&out, "Label: %s\n", info.Label)
	}
	return out.String()
}
