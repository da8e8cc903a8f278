// Package service provides the business logic layer for the pathfinding simulator.
//
// The service package implements:
//   - Multi-session simulation management
//   - Goal selection and bounded multi-tick stepping
//   - Autoplay ticking for sessions watched over websockets
//   - Scenario configuration lookup
//
// Core Interfaces:
//
// SimulationService is the main service interface used by the REST API and,
// through it, the MCP tools. SessionManager handles session creation,
// retrieval, and lifecycle. ConfigManager manages scenario loading and
// validation.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	svc := service.NewSimulationService(sessionMgr, configMgr)
//
//	info, err := svc.CreateSession(ctx, "uninformed")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	svc.SelectGoal(ctx, info.ID, grid.Cell{X: 36, Y: 25})
//	result, err := svc.Step(ctx, info.ID, 50)
//
// Concurrency:
//
// Each session carries its own lock; the service takes it around every
// simulation access so HTTP handlers and the autoplay ticker can share
// sessions safely.
package service
