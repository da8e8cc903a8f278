// Package engine assembles a runnable pathfinding simulation from a scenario.
//
// The engine package ties the lower layers together:
//   - Scenario configuration loading and validation (JSON files)
//   - Grid construction: text layouts, procedural cities and carved mazes
//   - Stepper selection from the scenario's algorithm id
//   - The playback controller that searches and then drives the agent
//   - Renderer and InputSource contracts plus the fixed-rate tick loop
//
// Core Types:
//
// ScenarioConfig is the JSON scenario description. Simulation owns the grid
// and the controller built from it, and Snapshot is its serialisable view
// consumed by the REST API, the websocket hub and the MCP tools.
//
// Usage:
//
//	cfg, err := engine.LoadScenarioByName("informed")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sim, err := engine.NewSimulation(cfg, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sim.SelectGoal(grid.Cell{X: 36, Y: 25})
//	for i := 0; i < 100; i++ {
//		sim.Tick()
//	}
//	snapshot := sim.Snapshot()
//
// Tick Order:
//
// Run performs, per tick, at most one input poll, at most one search step or
// movement step, and one draw, in that order. Nothing blocks inside a tick.
package engine
