// Package websocket streams simulation snapshots to browser viewers.
//
// The package uses a hub-and-spoke model: a central Hub tracks connected
// viewers per session and each connection runs its own read and write
// goroutines.
//
// Message Protocol:
//
// Outgoing messages are JSON:
//
//	{"session_id": "ab12", "event": "state_update", "snapshot": {...}}
//
// Viewers are read-only. Goal selection goes through the REST API, and the
// resulting snapshot is broadcast to every viewer of that session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// A viewer whose send buffer fills up is dropped rather than allowed to
// stall the autoplay loop.
package websocket
