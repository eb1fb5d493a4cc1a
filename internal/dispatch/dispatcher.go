// Package dispatch implements the nearest-first assignment policy: idle
// robots are matched to pending orders by proximity, never by a globally
// optimal assignment.
package dispatch

import (
	"sort"

	"github.com/Jaaziel21/Sim-CEDIS/internal/core"
	"github.com/Jaaziel21/Sim-CEDIS/internal/pathfind"
)

// Result records what happened when the dispatcher tried to match a robot
// to an order, for metrics purposes.
type Result struct {
	Assigned    int
	Unreachable []core.OrderID
}

// Assign scans idle robots in ascending id order and, for each, selects
// the pending order whose shelf anchor minimizes Manhattan distance from
// the robot's current cell, breaking ties by lower order id. The
// assignment is only committed if the pathfinder returns a route to the
// shelf; otherwise the order stays pending and the robot stays idle.
func Assign(scenario *core.Scenario, robots map[core.RobotID]*core.Robot, queue *core.OrderQueue) Result {
	var res Result

	idle := make([]*core.Robot, 0, len(robots))
	for _, r := range robots {
		if r.Phase == core.Idle {
			idle = append(idle, r)
		}
	}
	sort.Slice(idle, func(i, j int) bool { return idle[i].ID < idle[j].ID })

	for _, r := range idle {
		order, shelf, station := nearestOrder(scenario, queue.Pending(), r.CurrentCell)
		if order == nil {
			continue
		}

		path := pathfind.Plan(scenario.Grid, r.CurrentCell, shelf.Anchor, shelf.Anchor, true)
		if path == nil {
			res.Unreachable = append(res.Unreachable, order.ID)
			continue
		}

		queue.Take(order.ID)
		oid := order.ID
		r.AssignedOrder = &oid
		r.ShelfAnchor = shelf.Anchor
		r.StationCell = station.Cell
		r.Phase = core.ToShelf
		r.CarryingShelf = false
		r.SetPlan(path)
		res.Assigned++
	}

	return res
}

// nearestOrder finds the pending order whose shelf anchor is closest to
// from, breaking ties by lower order id. It returns nil if no pending
// order references a known shelf and station.
func nearestOrder(scenario *core.Scenario, pending []*core.Order, from core.Cell) (*core.Order, *core.Shelf, *core.Station) {
	var best *core.Order
	var bestShelf *core.Shelf
	var bestStation *core.Station
	bestDist := -1

	for _, o := range pending {
		shelf := scenario.ShelfByID(o.ShelfID)
		station := scenario.StationByID(o.StationID)
		if shelf == nil || station == nil {
			continue
		}
		dist := from.Manhattan(shelf.Anchor)
		if best == nil || dist < bestDist || (dist == bestDist && o.ID < best.ID) {
			best, bestShelf, bestStation, bestDist = o, shelf, station, dist
		}
	}

	return best, bestShelf, bestStation
}
