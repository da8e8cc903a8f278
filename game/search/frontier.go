package search

import (
	"container/heap"

	"github.com/wricardo/mcp-training/pathfinder/game/grid"
)

// entry is one frontier record; a cell may have several, only the cheapest is live
type entry struct {
	priority int
	cost     int
	seq      uint64
	cell     grid.Cell
}

// priorityQueue orders entries by priority, then insertion order
type priorityQueue []entry

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].seq < pq[j].seq
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(entry))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// frontier is a stable min-priority queue of cells
type frontier struct {
	pq  priorityQueue
	seq uint64
}

func (f *frontier) push(priority, cost int, c grid.Cell) {
	heap.Push(&f.pq, entry{priority: priority, cost: cost, seq: f.seq, cell: c})
	f.seq++
}

func (f *frontier) pop() entry {
	return heap.Pop(&f.pq).(entry)
}

func (f *frontier) len() int {
	return f.pq.Len()
}
