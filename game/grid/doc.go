// Package grid provides the static world model shared by every simulation:
// a fixed-size rectangle of terrain codes addressed by integer cells.
//
// Two families of terrain exist. City worlds use Road, Building, Obstacle,
// House, School, Hospital and Park; maze worlds use Wall and Open. Only Road
// and Open are passable for search purposes.
//
// Usage:
//
//	g, err := grid.NewCity(grid.DefaultCityLayout(40, 30), rng)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if g.IsPassable(grid.Cell{X: 4, Y: 5}) {
//		// ...
//	}
//
// Layouts:
//
// Grids can also be written as text, one string per row, using the terrain
// characters R, B, X, H, S, M, P (city) and W, O (maze):
//
//	g, err := grid.Parse([]string{
//		"RRRRR",
//		"RBBBR",
//		"RRRRR",
//	})
//
// The grid is read-only after construction except for the explicit setup
// calls FillRectangle, Set and ScatterObstacles.
package grid
