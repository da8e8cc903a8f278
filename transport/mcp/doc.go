// Package mcp exposes the pathfinding simulator as Model Context Protocol
// tools for AI agents.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API, so the same sessions are visible to browsers, the REST API and
// MCP agents at once.
//
// MCP Tools:
//   - create_session, list_sessions: session lifecycle
//   - get_state: ASCII grid with trace, path, goal and agent
//   - select_goal, step, reset_simulation, set_autoplay: drive a simulation
//   - list_configs, list_algorithms: catalogue
//   - describe_cell: terrain and search status of one cell
//   - simulator_instructions: legend and workflow
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: the root binary mounts HandleMessage on /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
