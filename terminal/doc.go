// Package terminal draws a simulation in a terminal with tcell and turns
// mouse clicks and keys into simulation input.
//
// Each grid cell takes two terminal columns so cells look roughly square.
// A click with the left button selects the clicked cell as the goal; q, Esc
// and Ctrl-C quit. The row under the grid carries a status line.
//
// Usage:
//
//	screen, err := terminal.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer screen.Close()
//
//	err = engine.Run(ctx, sim, screen, screen)
package terminal
