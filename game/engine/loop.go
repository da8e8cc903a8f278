package engine

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/pathfinder/game/grid"
	"github.com/wricardo/mcp-training/pathfinder/game/playback"
)

// EventKind distinguishes input events
type EventKind int

const (
	EventQuit EventKind = iota
	EventSelectGoal
)

// Event is one discrete input. Cell is set for EventSelectGoal.
type Event struct {
	Kind EventKind
	Cell grid.Cell
}

// InputSource yields the events available since the last poll
type InputSource interface {
	Poll() []Event
}

// Renderer draws one frame; Present flushes it
type Renderer interface {
	DrawGrid(g *grid.Grid)
	DrawTrace(trace []grid.Cell)
	DrawPath(path []grid.Cell)
	DrawMarkers(markers []Marker)
	DrawAgent(agent playback.Agent)
	Present() error
}

// Frame runs a single tick: poll, step, draw. It reports false once a quit
// event has been seen, in which case nothing is stepped or drawn.
func Frame(sim *Simulation, input InputSource, renderer Renderer) (bool, error) {
	for _, ev := range input.Poll() {
		switch ev.Kind {
		case EventQuit:
			return false, nil
		case EventSelectGoal:
			sim.SelectGoal(ev.Cell)
		}
	}

	sim.Tick()
	return true, Draw(sim, renderer)
}

// Draw renders the current simulation state
func Draw(sim *Simulation, renderer Renderer) error {
	ctrl := sim.Controller()
	renderer.DrawGrid(sim.Grid())
	renderer.DrawTrace(ctrl.Trace())
	renderer.DrawPath(ctrl.Path())
	renderer.DrawMarkers(sim.Markers())
	renderer.DrawAgent(ctrl.Agent())
	return renderer.Present()
}

// Run drives sim at its tick rate until a quit event or ctx is cancelled
func Run(ctx context.Context, sim *Simulation, input InputSource, renderer Renderer) error {
	if err := Draw(sim, renderer); err != nil {
		return err
	}

	interval := sim.TickInterval()
	if interval <= 0 {
		interval = time.Duration(DefaultTickMS) * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			running, err := Frame(sim, input, renderer)
			if err != nil {
				return err
			}
			if !running {
				return nil
			}
		}
	}
}
