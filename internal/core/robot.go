package core

// RobotID uniquely identifies a robot.
type RobotID int

// Stats accumulates per-robot counters sampled throughout the run.
type Stats struct {
	Distance     int // cells moved
	TicksWaiting int
	TicksMoving  int
}

// Robot is a single agent cycling through pickup/deliver/return.
//
// Invariants:
//   - Phase == Idle iff AssignedOrder == nil.
//   - CarryingShelf is true only while Phase == ToStation.
//   - PlannedPath[PlannedStep] == CurrentCell whenever PlannedPath is non-empty.
type Robot struct {
	ID             RobotID
	CurrentCell    Cell
	Phase          Phase
	AssignedOrder  *OrderID
	ShelfAnchor    Cell // pickup/return target while servicing AssignedOrder
	StationCell    Cell // delivery target while servicing AssignedOrder
	PlannedPath    []Cell
	PlannedStep    int // index into PlannedPath of CurrentCell
	CarryingShelf  bool
	Stats          Stats
}

// NewRobot creates an idle robot parked at start.
func NewRobot(id RobotID, start Cell) *Robot {
	return &Robot{ID: id, CurrentCell: start, Phase: Idle}
}

// PhaseGoal returns the cell the robot is currently routed toward.
func (r *Robot) PhaseGoal() Cell {
	switch r.Phase {
	case ToShelf, ToReturn:
		return r.ShelfAnchor
	case ToStation:
		return r.StationCell
	default:
		return r.CurrentCell
	}
}

// NextCell reports the next cell in the plan beyond the robot's current
// position, and whether one exists.
func (r *Robot) NextCell() (Cell, bool) {
	if len(r.PlannedPath) == 0 || r.PlannedStep >= len(r.PlannedPath)-1 {
		return Cell{}, false
	}
	return r.PlannedPath[r.PlannedStep+1], true
}

// Advance moves the robot's cursor one step along its plan into c.
func (r *Robot) Advance(c Cell) {
	r.CurrentCell = c
	r.PlannedStep++
	r.Stats.Distance++
	r.Stats.TicksMoving++
}

// RecordWait increments the robot's own wait counter, alongside the
// scheduler's per-cell Metrics.RecordWait, whenever this robot is blocked
// from advancing on its plan.
func (r *Robot) RecordWait() {
	r.Stats.TicksWaiting++
}

// SetPlan installs a freshly computed route; path[0] must equal CurrentCell.
func (r *Robot) SetPlan(path []Cell) {
	r.PlannedPath = path
	r.PlannedStep = 0
}

// ClearPlan drops the current route, forcing a replan on the next tick.
func (r *Robot) ClearPlan() {
	r.PlannedPath = nil
	r.PlannedStep = 0
}

// AtPhaseGoal reports whether the robot has reached the goal of its current
// phase.
func (r *Robot) AtPhaseGoal() bool {
	return r.Phase != Idle && r.CurrentCell == r.PhaseGoal()
}
