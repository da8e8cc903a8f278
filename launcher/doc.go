// Package launcher starts a demo as its own process.
//
// Each algorithm id maps to a scenario of the same name, and the demo runs
// as `<binary> run <scenario>`. The short ids astar, blind and dfs are
// accepted as aliases. The child is not tied to the caller's
// context, so it keeps running when the launching request ends.
package launcher
