package terminal

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/pathfinder/game/engine"
	"github.com/wricardo/mcp-training/pathfinder/game/grid"
	"github.com/wricardo/mcp-training/pathfinder/game/playback"
)

func newTestScreen(t *testing.T) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	scr, err := NewWithScreen(sim)
	require.NoError(t, err)
	sim.SetSize(40, 12)
	t.Cleanup(scr.Close)
	return scr, sim
}

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.Parse([]string{
		"RRRR",
		"RBBR",
		"RRRR",
	})
	require.NoError(t, err)
	return g
}

func cellAt(sim tcell.SimulationScreen, x, y int) (rune, tcell.Color) {
	r, _, style, _ := sim.GetContent(x, y)
	_, bg, _ := style.Decompose()
	return r, bg
}

func TestDrawGridUsesTwoColumnsPerCell(t *testing.T) {
	scr, sim := newTestScreen(t)
	scr.DrawGrid(testGrid(t))
	require.NoError(t, scr.Present())

	_, bg := cellAt(sim, 2, 1)
	assert.Equal(t, tcell.ColorGray, bg)
	_, bg = cellAt(sim, 3, 1)
	assert.Equal(t, tcell.ColorGray, bg)
	_, bg = cellAt(sim, 1, 1)
	assert.Equal(t, tcell.ColorDimGray, bg)
}

func TestOverlaysDrawOnTopOfTerrain(t *testing.T) {
	scr, sim := newTestScreen(t)
	scr.DrawGrid(testGrid(t))
	scr.DrawTrace([]grid.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}})
	scr.DrawPath([]grid.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}})
	scr.DrawMarkers([]engine.Marker{{Kind: engine.MarkerGoal, Cell: grid.Cell{X: 3, Y: 2}}})
	scr.DrawAgent(playback.Agent{Cell: grid.Cell{X: 0, Y: 0}})
	require.NoError(t, scr.Present())

	r, bg := cellAt(sim, 0, 0)
	assert.Equal(t, '@', r)
	assert.Equal(t, tcell.ColorRed, bg)

	_, bg = cellAt(sim, 2, 0)
	assert.Equal(t, tcell.ColorYellow, bg)

	_, bg = cellAt(sim, 4, 0)
	assert.Equal(t, tcell.ColorDarkCyan, bg)

	r, bg = cellAt(sim, 6, 2)
	assert.Equal(t, 'G', r)
	assert.Equal(t, tcell.ColorFuchsia, bg)
}

func TestLabelsKeepBackground(t *testing.T) {
	scr, sim := newTestScreen(t)
	scr.DrawGrid(testGrid(t))
	scr.DrawMarkers([]engine.Marker{{Kind: engine.MarkerBuilding, Label: "Library", Cell: grid.Cell{X: 1, Y: 1}}})
	require.NoError(t, scr.Present())

	r, bg := cellAt(sim, 2, 1)
	assert.Equal(t, 'L', r)
	assert.Equal(t, tcell.ColorGray, bg)

	// clipped at the right edge of the grid
	r, _ = cellAt(sim, 7, 1)
	assert.Equal(t, 'r', r)
	r, _ = cellAt(sim, 8, 1)
	assert.NotEqual(t, 'y', r)
}

func TestStatusLineUnderGrid(t *testing.T) {
	scr, sim := newTestScreen(t)
	scr.DrawGrid(testGrid(t))
	scr.SetStatus("BFS searching")
	require.NoError(t, scr.Present())

	r, _ := cellAt(sim, 0, 3)
	assert.Equal(t, 'B', r)
	r, _ = cellAt(sim, 4, 3)
	assert.Equal(t, 's', r)
}

func TestCellAt(t *testing.T) {
	scr, _ := newTestScreen(t)
	scr.DrawGrid(testGrid(t))

	c, ok := scr.CellAt(5, 2)
	assert.True(t, ok)
	assert.Equal(t, grid.Cell{X: 2, Y: 2}, c)

	_, ok = scr.CellAt(8, 0)
	assert.False(t, ok)
	_, ok = scr.CellAt(0, 3)
	assert.False(t, ok)
	_, ok = scr.CellAt(-1, 0)
	assert.False(t, ok)
}

func TestPollTranslatesInput(t *testing.T) {
	scr, _ := newTestScreen(t)
	scr.DrawGrid(testGrid(t))

	scr.events <- tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	scr.events <- tcell.NewEventMouse(6, 1, tcell.Button1, tcell.ModNone)
	// held button does not repeat the selection
	scr.events <- tcell.NewEventMouse(6, 1, tcell.Button1, tcell.ModNone)
	scr.events <- tcell.NewEventMouse(6, 1, tcell.ButtonNone, tcell.ModNone)
	// outside the grid
	scr.events <- tcell.NewEventMouse(30, 1, tcell.Button1, tcell.ModNone)
	scr.events <- tcell.NewEventMouse(30, 1, tcell.ButtonNone, tcell.ModNone)
	scr.events <- tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)

	events := scr.Poll()
	require.Len(t, events, 2)
	assert.Equal(t, engine.Event{Kind: engine.EventSelectGoal, Cell: grid.Cell{X: 3, Y: 1}}, events[0])
	assert.Equal(t, engine.EventQuit, events[1].Kind)

	assert.Empty(t, scr.Poll())
}

func TestQuitKeys(t *testing.T) {
	scr, _ := newTestScreen(t)

	for _, ev := range []tcell.Event{
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
		tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModShift),
	} {
		scr.events <- ev
		events := scr.Poll()
		require.Len(t, events, 1)
		assert.Equal(t, engine.EventQuit, events[0].Kind)
	}
}

func TestInjectedEventsReachPoll(t *testing.T) {
	scr, sim := newTestScreen(t)
	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	var events []engine.Event
	deadline := time.Now().Add(2 * time.Second)
	for len(events) == 0 && time.Now().Before(deadline) {
		events = scr.Poll()
		time.Sleep(5 * time.Millisecond)
	}
	require.Len(t, events, 1)
	assert.Equal(t, engine.EventQuit, events[0].Kind)
}

func TestCloseIsIdempotent(t *testing.T) {
	scr, _ := newTestScreen(t)
	scr.Close()
	scr.Close()
}
