// Package sim implements the tick scheduler that drives intake, dispatch,
// pathfinding, movement, phase transitions, deadlock detection, and
// reservation bookkeeping forward one tick at a time.
package sim

import (
	"sort"

	"github.com/Jaaziel21/Sim-CEDIS/internal/core"
	"github.com/Jaaziel21/Sim-CEDIS/internal/dispatch"
	"github.com/Jaaziel21/Sim-CEDIS/internal/pathfind"
	"github.com/Jaaziel21/Sim-CEDIS/internal/reservation"
)

// Scheduler owns every mutable piece of a single simulation run: robot
// state, the order queue, the reservation table, and the metrics
// accumulator. A Scheduler is run for a fixed horizon of ticks and produces
// a deterministic Metrics snapshot.
type Scheduler struct {
	Scenario *core.Scenario
	Robots   map[core.RobotID]*core.Robot
	Queue    *core.OrderQueue
	Table    *reservation.Table
	Metrics  *core.Metrics
	Tick     int

	// TotalOrders is the size of the full order set passed to New, used by
	// the metrics report to close the completed+pending+unreachable
	// conservation identity.
	TotalOrders int

	creationTick map[core.OrderID]int
}

// New builds a scheduler for a scenario, an initial robot roster, and the
// full order set (released incrementally by CreationTick as the run
// progresses).
func New(scenario *core.Scenario, robots []*core.Robot, orders []*core.Order) *Scheduler {
	robotMap := make(map[core.RobotID]*core.Robot, len(robots))
	for _, r := range robots {
		robotMap[r.ID] = r
	}
	creation := make(map[core.OrderID]int, len(orders))
	for _, o := range orders {
		creation[o.ID] = o.CreationTick
	}

	return &Scheduler{
		Scenario:     scenario,
		Robots:       robotMap,
		Queue:        core.NewOrderQueue(orders),
		Table:        reservation.New(),
		Metrics:      core.NewMetrics(scenario.Grid.Width, scenario.Grid.Height),
		TotalOrders:  len(orders),
		creationTick: creation,
	}
}

// Run advances the scheduler for horizon ticks and returns the resulting
// metrics. It is deterministic: identical scenario, robot roster, and order
// set always produce byte-identical metrics.
func (s *Scheduler) Run(horizon int) *core.Metrics {
	for t := 0; t < horizon; t++ {
		s.Step()
	}
	return s.Metrics
}

// Step executes one full tick: intake, dispatch, plan, move-attempt,
// phase-transition, deadlock-detection, purge, advance.
func (s *Scheduler) Step() {
	s.intake()
	s.dispatch()
	s.plan()
	advanced := s.moveAttempt()
	s.phaseTransition()
	s.deadlockDetect(advanced)
	s.Table.ReleasePast(s.Tick + 1)
	s.Tick++
}

func (s *Scheduler) intake() {
	s.Queue.Intake(s.Tick)
}

func (s *Scheduler) dispatch() {
	res := dispatch.Assign(s.Scenario, s.Robots, s.Queue)
	for _, id := range res.Unreachable {
		s.Metrics.RecordUnreachable(id)
	}
}

// plan computes a fresh route for every non-idle robot that has none,
// honoring the single-shelf exemption for the robot's own assigned shelf.
func (s *Scheduler) plan() {
	for _, r := range s.sortedRobots() {
		if r.Phase == core.Idle || len(r.PlannedPath) != 0 || r.AtPhaseGoal() {
			continue
		}
		path := pathfind.Plan(s.Scenario.Grid, r.CurrentCell, r.PhaseGoal(), r.ShelfAnchor, true)
		if path == nil {
			if r.AssignedOrder != nil {
				s.Metrics.RecordUnreachable(*r.AssignedOrder)
			}
			continue
		}
		r.SetPlan(path)
	}
}

// occupied snapshots every robot's current cell.
func (s *Scheduler) occupied() map[core.Cell]core.RobotID {
	occ := make(map[core.Cell]core.RobotID, len(s.Robots))
	for _, r := range s.Robots {
		occ[r.CurrentCell] = r.ID
	}
	return occ
}

// moveAttempt tries to advance every non-idle, non-arrived robot one step
// along its plan, resolving conflicts through the reservation table. It
// reports whether any robot actually advanced this tick, for deadlock
// detection.
//
// The reservation table alone only arbitrates between robots' planned
// future steps; it does not know which robots currently sitting in a
// target cell will vacate it later in this same pass. occupied tracks
// live physical position and is updated as each robot commits a move, so
// a robot is never allowed to step into a cell another robot still
// physically holds at the moment of the check, regardless of processing
// order — this is in addition to, not a replacement for, the table's
// vertex/edge bookings, which continue to arbitrate across ticks.
func (s *Scheduler) moveAttempt() bool {
	occ := s.occupied()
	advanced := false

	for _, r := range s.sortedRobots() {
		if r.Phase == core.Idle {
			continue
		}
		if r.AtPhaseGoal() {
			// A robot standing at its phase goal still occupies and defends
			// its cell. This happens when a robot is dispatched to the shelf
			// it already stands on; a robot that moves onto its goal changes
			// phase in that same tick, so there is no separate pickup tick.
			s.Table.ReserveWait(r.CurrentCell, s.Tick, r.ID)
			continue
		}

		next, ok := r.NextCell()
		if !ok {
			s.Table.ReserveWait(r.CurrentCell, s.Tick, r.ID)
			s.Metrics.RecordWait(r.CurrentCell)
			r.RecordWait()
			continue
		}

		if holder, present := occ[next]; present && holder != r.ID {
			s.Table.ReserveWait(r.CurrentCell, s.Tick, r.ID)
			s.Metrics.RecordWait(r.CurrentCell)
			r.RecordWait()
			continue
		}

		if !s.Table.CanMove(r.CurrentCell, next, s.Tick, r.ID) {
			s.Table.ReserveWait(r.CurrentCell, s.Tick, r.ID)
			s.Metrics.RecordWait(r.CurrentCell)
			r.RecordWait()
			continue
		}

		delete(occ, r.CurrentCell)
		s.Table.ReserveMove(r.CurrentCell, next, s.Tick, r.ID)
		r.Advance(next)
		occ[next] = r.ID
		s.Metrics.RecordVisit(next)
		s.Metrics.TotalDistance++
		advanced = true
	}

	return advanced
}

// phaseTransition advances the FSM for every robot that reached the goal
// of its current leg.
func (s *Scheduler) phaseTransition() {
	for _, r := range s.sortedRobots() {
		if !r.AtPhaseGoal() {
			continue
		}
		switch r.Phase {
		case core.ToShelf:
			r.CarryingShelf = true
			r.Phase = core.ToStation
			r.ClearPlan()
		case core.ToStation:
			r.CarryingShelf = false
			if r.AssignedOrder != nil {
				leadTime := s.Tick - s.creationTick[*r.AssignedOrder]
				s.Metrics.RecordCompleted(*r.AssignedOrder, leadTime)
			}
			r.Phase = core.ToReturn
			r.ClearPlan()
		case core.ToReturn:
			r.AssignedOrder = nil
			r.Phase = core.Idle
			r.ClearPlan()
		}
	}
}

// deadlockDetect implements the tick-level rule: if no non-idle robot
// advanced this tick and at least one non-idle robot exists, the tick
// counts as a deadlock tick. No corrective action is taken here, and a
// blocked robot is not replanned (plan only routes robots whose plan is
// empty), so robots that block each other head-on keep waiting and every
// such tick is counted.
func (s *Scheduler) deadlockDetect(advanced bool) {
	if advanced {
		return
	}
	for _, r := range s.Robots {
		if r.Phase != core.Idle {
			s.Metrics.DeadlockTicks++
			return
		}
	}
}

func (s *Scheduler) sortedRobots() []*core.Robot {
	out := make([]*core.Robot, 0, len(s.Robots))
	for _, r := range s.Robots {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
