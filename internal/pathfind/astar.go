// Package pathfind implements the 4-connected A* pathfinder used to route a
// single robot across the static grid. It never consults the reservation
// table: the scheduler resolves temporal conflicts by waiting or replanning
// around the static route this package returns.
package pathfind

import (
	"container/heap"

	"github.com/Jaaziel21/Sim-CEDIS/internal/core"
)

// node is a single A* search state.
type node struct {
	cell    core.Cell
	g, h, f int
	parent  *node
	index   int // heap index, maintained by container/heap
}

// openHeap orders nodes by f, then h, then (row, col) for reproducibility
// across runs with identical inputs.
type openHeap []*node

func (h openHeap) Len() int { return len(h) }

func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].h != h[j].h {
		return h[i].h < h[j].h
	}
	return h[i].cell.Less(h[j].cell)
}

func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}

func (h *openHeap) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// Plan finds a 4-connected route from start to goal over grid, admitting a
// single shelf cell (exempt) as traversable when hasExempt is true — the
// requesting robot's own pickup target, or the cell it is carrying back to.
// It returns nil if no route exists; it never returns a partial path.
func Plan(grid *core.Grid, start, goal core.Cell, exempt core.Cell, hasExempt bool) []core.Cell {
	if !grid.Traversable(start, exempt, hasExempt) || !grid.Traversable(goal, exempt, hasExempt) {
		return nil
	}

	h := func(c core.Cell) int { return c.Manhattan(goal) }

	startNode := &node{cell: start, g: 0, h: h(start)}
	startNode.f = startNode.g + startNode.h

	open := &openHeap{startNode}
	heap.Init(open)

	bestG := map[core.Cell]int{start: 0}
	closed := make(map[core.Cell]bool)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if closed[cur.cell] {
			continue
		}
		closed[cur.cell] = true

		if cur.cell == goal {
			return reconstruct(cur)
		}

		for _, nb := range grid.Neighbors4(cur.cell) {
			if !grid.Traversable(nb, exempt, hasExempt) {
				continue
			}
			if closed[nb] {
				continue
			}
			g := cur.g + 1
			if prev, ok := bestG[nb]; ok && prev <= g {
				continue
			}
			bestG[nb] = g
			n := &node{cell: nb, g: g, h: h(nb), parent: cur}
			n.f = n.g + n.h
			heap.Push(open, n)
		}
	}

	return nil
}

func reconstruct(n *node) []core.Cell {
	var rev []core.Cell
	for cur := n; cur != nil; cur = cur.parent {
		rev = append(rev, cur.cell)
	}
	path := make([]core.Cell, len(rev))
	for i, c := range rev {
		path[len(rev)-1-i] = c
	}
	return path
}
