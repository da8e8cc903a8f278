// Package api provides the HTTP REST API for the pathfinding simulator.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "maze", "autoplay": true})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=n)
//   - GET /api/sessions/{id} - Get session info with its snapshot
//   - DELETE /api/sessions/{id} - Delete a session
//
// Simulation:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - POST /api/sessions/{id}/goal - Select a goal ({"x": 12, "y": 7})
//   - POST /api/sessions/{id}/step - Advance up to n ticks ({"ticks": 50})
//   - POST /api/sessions/{id}/reset - Rebuild the simulation from its scenario
//   - POST /api/sessions/{id}/autoplay - Toggle background ticking ({"enabled": true})
//   - GET /api/sessions/{id}/cells/{x}/{y} - Describe one cell
//   - GET /api/algorithms - List search algorithms
//
// Configuration:
//   - GET /api/configs - List scenarios
//   - GET /api/configs/{name} - Get one scenario
//   - POST /api/configs - Save a scenario
//
// Viewers:
//   - GET /ws?session={id} - WebSocket stream of snapshots
//
// A goal selection that is rejected (out of bounds, impassable, or not a maze
// exit) is not an error: the response carries "accepted": false and a message.
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status code: 400 for bad input,
// 404 for unknown sessions or scenarios, 500 otherwise.
//
//	{"error": "session not found: session not found"}
package api
