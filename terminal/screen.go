package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/mcp-training/pathfinder/game/engine"
	"github.com/wricardo/mcp-training/pathfinder/game/grid"
	"github.com/wricardo/mcp-training/pathfinder/game/playback"
)

// CellWidth is the number of terminal columns per grid cell
const CellWidth = 2

const eventBuffer = 64

var terrainStyles = map[grid.Terrain]tcell.Style{
	grid.Road:     tcell.StyleDefault.Background(tcell.ColorDimGray),
	grid.Building: tcell.StyleDefault.Background(tcell.ColorGray),
	grid.Obstacle: tcell.StyleDefault.Background(tcell.ColorMaroon),
	grid.House:    tcell.StyleDefault.Background(tcell.ColorOlive),
	grid.School:   tcell.StyleDefault.Background(tcell.ColorNavy),
	grid.Hospital: tcell.StyleDefault.Background(tcell.ColorTeal),
	grid.Park:     tcell.StyleDefault.Background(tcell.ColorGreen),
	grid.Wall:     tcell.StyleDefault.Background(tcell.ColorBlack),
	grid.Open:     tcell.StyleDefault.Background(tcell.ColorWhite),
}

var (
	traceStyle  = tcell.StyleDefault.Background(tcell.ColorDarkCyan)
	pathStyle   = tcell.StyleDefault.Background(tcell.ColorYellow)
	agentStyle  = tcell.StyleDefault.Background(tcell.ColorRed).Foreground(tcell.ColorWhite).Bold(true)
	labelStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	goalStyle   = tcell.StyleDefault.Background(tcell.ColorFuchsia).Foreground(tcell.ColorWhite).Bold(true)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)

// Screen is both the Renderer and the InputSource of a terminal demo
type Screen struct {
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}
	once   sync.Once

	width, height int // grid size in cells, from the last DrawGrid
	buttons       tcell.ButtonMask
	status        string
}

// New opens the real terminal
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to open terminal: %w", err)
	}
	return NewWithScreen(s)
}

// NewWithScreen initialises s and starts reading its events
func NewWithScreen(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise terminal: %w", err)
	}
	s.EnableMouse()
	s.HideCursor()
	s.Clear()

	scr := &Screen{
		screen: s,
		events: make(chan tcell.Event, eventBuffer),
		done:   make(chan struct{}),
		status: "click: set goal   q: quit",
	}
	go scr.pump()
	return scr, nil
}

// pump forwards terminal events until the screen is closed
func (s *Screen) pump() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

// Close restores the terminal
func (s *Screen) Close() {
	s.once.Do(func() {
		close(s.done)
		s.screen.Fini()
	})
}

// SetStatus replaces the text under the grid
func (s *Screen) SetStatus(text string) {
	s.status = text
}

// CellAt maps a terminal position to a grid cell
func (s *Screen) CellAt(x, y int) (grid.Cell, bool) {
	c := grid.Cell{X: x / CellWidth, Y: y}
	if x < 0 || y < 0 || c.X >= s.width || c.Y >= s.height {
		return grid.Cell{}, false
	}
	return c, true
}

// Poll drains pending terminal events without blocking
func (s *Screen) Poll() []engine.Event {
	var out []engine.Event
	for {
		select {
		case ev := <-s.events:
			if translated, ok := s.translate(ev); ok {
				out = append(out, translated)
			}
		default:
			return out
		}
	}
}

func (s *Screen) translate(ev tcell.Event) (engine.Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
			return engine.Event{Kind: engine.EventQuit}, true
		}

	case *tcell.EventMouse:
		buttons := ev.Buttons()
		pressed := buttons&tcell.Button1 != 0 && s.buttons&tcell.Button1 == 0
		s.buttons = buttons
		if !pressed {
			return engine.Event{}, false
		}
		if c, ok := s.CellAt(ev.Position()); ok {
			return engine.Event{Kind: engine.EventSelectGoal, Cell: c}, true
		}

	case *tcell.EventResize:
		s.screen.Sync()
	}
	return engine.Event{}, false
}

func (s *Screen) fill(c grid.Cell, style tcell.Style, text string) {
	runes := []rune(text)
	for i := 0; i < CellWidth; i++ {
		r := ' '
		if i < len(runes) {
			r = runes[i]
		}
		s.screen.SetContent(c.X*CellWidth+i, c.Y, r, nil, style)
	}
}

// DrawGrid paints every cell with its terrain colour
func (s *Screen) DrawGrid(g *grid.Grid) {
	s.screen.Clear()
	s.width, s.height = g.Width(), g.Height()

	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := grid.Cell{X: x, Y: y}
			t, _ := g.TerrainAt(c)
			s.fill(c, terrainStyles[t], "")
		}
	}
}

func (s *Screen) DrawTrace(trace []grid.Cell) {
	for _, c := range trace {
		s.fill(c, traceStyle, "")
	}
}

func (s *Screen) DrawPath(path []grid.Cell) {
	for _, c := range path {
		s.fill(c, pathStyle, "")
	}
}

// DrawMarkers writes labels across the cells right of their anchor
func (s *Screen) DrawMarkers(markers []engine.Marker) {
	for _, m := range markers {
		if m.Kind == engine.MarkerGoal {
			s.fill(m.Cell, goalStyle, "GG")
			continue
		}

		x := m.Cell.X * CellWidth
		for i, r := range m.Label {
			col := x + i
			if col >= s.width*CellWidth {
				break
			}
			_, _, style, _ := s.screen.GetContent(col, m.Cell.Y)
			_, bg, _ := style.Decompose()
			s.screen.SetContent(col, m.Cell.Y, r, nil, labelStyle.Background(bg))
		}
	}
}

func (s *Screen) DrawAgent(agent playback.Agent) {
	s.fill(agent.Cell, agentStyle, "@@")
}

// Present writes the status line and flushes the frame
func (s *Screen) Present() error {
	for i, r := range s.status {
		s.screen.SetContent(i, s.height, r, nil, statusStyle)
	}
	s.screen.Show()
	return nil
}
