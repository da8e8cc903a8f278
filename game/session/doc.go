// Package session provides session management for the pathfinding simulator.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session cleanup and expiration
//
// Each session owns an independent engine.Simulation built from a scenario,
// so two sessions on the same scenario never share a grid or a controller.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference, generated from
// crypto/rand and matched case-insensitively.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", scenario)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sessionID)
//	sessions := manager.List()
//
// Sessions live in memory only and are dropped by CleanupExpiredSessions
// once idle, unless autoplay keeps them alive.
package session
