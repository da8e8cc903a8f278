// Package search implements resumable, one-expansion-per-call grid searches.
//
// Three strategies share the Stepper contract:
//   - BreadthFirst (uninformed): FIFO frontier, neighbours up, right, down, left
//   - BestFirst (informed, A*): stable priority queue on cost + Manhattan distance,
//     neighbours right, left, down, up, lazy deletion of stale entries
//   - DepthFirst (maze): LIFO frontier, neighbours up, right, down, left
//
// Each call to Step performs exactly one node expansion and reports an
// Outcome. Terminal outcomes (GoalReached, Exhausted, Invalid) repeat on every
// later call; a new search needs a new Stepper. A goal that is not passable
// when the stepper is constructed yields Invalid on the first Step, no matter
// how the grid changes afterwards.
//
// Usage:
//
//	stepper, err := search.New(search.Uninformed, g, start, goal)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for !stepper.Done() {
//		stepper.Step()
//	}
//	path := search.Reconstruct(stepper.Predecessors(), goal)
package search
