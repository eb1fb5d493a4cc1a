// Package reservation implements the spatio-temporal booking table that
// prevents vertex and edge (swap) conflicts between robots whose planned
// moves overlap in space and time.
package reservation

import "github.com/Jaaziel21/Sim-CEDIS/internal/core"

type cellKey struct {
	c    core.Cell
	tick int
}

type edgeKey struct {
	from, to core.Cell
	tick     int
}

// Table is a mapping (cell, tick) -> robot, augmented with a directed-edge
// mapping (tick, from, to) -> robot used for swap detection. Entries are
// inserted by the scheduler and purged once their tick is in the past.
//
// The table never mutates state on a failed check: CanReserve and CanMove
// are pure queries, and only ReserveMove/ReserveWait write.
type Table struct {
	cells map[cellKey]core.RobotID
	edges map[edgeKey]core.RobotID
}

// New creates an empty reservation table.
func New() *Table {
	return &Table{
		cells: make(map[cellKey]core.RobotID),
		edges: make(map[edgeKey]core.RobotID),
	}
}

// CanReserve reports whether no robot other than robotID holds cell at tick.
func (t *Table) CanReserve(cell core.Cell, tick int, robotID core.RobotID) bool {
	holder, booked := t.cells[cellKey{cell, tick}]
	return !booked || holder == robotID
}

// CanMove reports whether robotID may move from `from` to `to`, arriving at
// tickFrom+1. It checks both the destination-cell booking and the opposite
// directed edge, which catches a head-on swap on the shared edge.
func (t *Table) CanMove(from, to core.Cell, tickFrom int, robotID core.RobotID) bool {
	tickTo := tickFrom + 1
	if !t.CanReserve(to, tickTo, robotID) {
		return false
	}
	if holder, swapping := t.edges[edgeKey{from: to, to: from, tick: tickTo}]; swapping && holder != robotID {
		return false
	}
	return true
}

// ReserveMove books the destination cell and the directed edge for a
// confirmed move. Callers must have verified CanMove first.
func (t *Table) ReserveMove(from, to core.Cell, tickFrom int, robotID core.RobotID) {
	tickTo := tickFrom + 1
	t.cells[cellKey{to, tickTo}] = robotID
	t.edges[edgeKey{from: from, to: to, tick: tickTo}] = robotID
}

// ReserveWait books the current cell for the next tick, defending a robot's
// position while it stays in place.
func (t *Table) ReserveWait(cell core.Cell, tickFrom int, robotID core.RobotID) {
	t.cells[cellKey{cell, tickFrom + 1}] = robotID
}

// ReleasePast purges every booking whose tick is strictly before
// currentTick.
func (t *Table) ReleasePast(currentTick int) {
	for k := range t.cells {
		if k.tick < currentTick {
			delete(t.cells, k)
		}
	}
	for k := range t.edges {
		if k.tick < currentTick {
			delete(t.edges, k)
		}
	}
}
