// Package config provides scenario management for the pathfinding simulator.
//
// The config package handles:
//   - Loading scenarios from JSON files
//   - Default scenario selection
//   - Scenario discovery and listing
//
// Scenario Format:
//
// Scenarios are JSON files in the configs directory. Each one picks a search
// algorithm (informed, uninformed or maze), a world (city or maze), the grid
// dimensions and the agent's movement style. City worlds may carry an ASCII
// layout or building rectangles; maze worlds list their exits.
//
// Shipped Scenarios:
//   - informed: A* across a 40x30 city with a gliding car
//   - uninformed: BFS across the same city, one cell per tick
//   - maze: DFS through a 50x37 generated maze toward one of two exits
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	scenario, err := manager.LoadConfig("maze")
//	defaultScenario := manager.GetDefault()
//	scenarios, err := manager.ListConfigs()
//
// Every scenario goes through engine.ValidateScenario before it is cached
// or written.
package config
