package engine

import (
	"strings"

	"github.com/wricardo/mcp-training/pathfinder/game/grid"
)

func containsCell(cells []grid.Cell, c grid.Cell) bool {
	for _, cell := range cells {
		if cell == c {
			return true
		}
	}
	return false
}

// RenderASCII draws a snapshot as text: trace '.', path '*', agent 'C',
// goal 'G', everything else its layout character.
func RenderASCII(snap *Snapshot) string {
	rows := make([][]byte, len(snap.Rows))
	for i, r := range snap.Rows {
		rows[i] = []byte(r)
	}
	put := func(c grid.Cell, ch byte) {
		if c.Y >= 0 && c.Y < len(rows) && c.X >= 0 && c.X < len(rows[c.Y]) {
			rows[c.Y][c.X] = ch
		}
	}

	for _, c := range snap.Trace {
		put(c, '.')
	}
	for _, c := range snap.Path {
		put(c, '*')
	}
	if snap.Goal != nil {
		put(*snap.Goal, 'G')
	}
	put(snap.Agent.Cell, 'C')

	var sb strings.Builder
	for _, r := range rows {
		sb.Write(r)
		sb.WriteByte('\n')
	}
	return sb.String()
}
