package core

// Metrics accumulates raw counters and per-cell heatmap data throughout a
// run. It is the only long-lived mutable structure besides the reservation
// table, and is owned exclusively by the scheduler. Derived figures
// (throughput, mean lead time, mean utilization, the visit/wait/ratio
// heatmaps as dense arrays) are computed from this raw accumulator at the
// end of the run by the metrics report builder, not stored here.
type Metrics struct {
	Width, Height int

	OrdersCompleted     int
	UnreachableAttempts int
	DeadlockTicks       int
	TotalDistance       int

	Visits []int // row-major, Height*Width
	Waits  []int // row-major, Height*Width

	LeadTime map[OrderID]int // completion_tick - creation_tick, per completed order

	// UnreachableOrders tracks orders that have suffered at least one
	// unreachable dispatch/replan attempt and have not yet completed. An
	// order is removed from this set the moment it completes.
	UnreachableOrders map[OrderID]bool
}

// NewMetrics allocates a metrics accumulator sized to the grid.
func NewMetrics(width, height int) *Metrics {
	return &Metrics{
		Width:             width,
		Height:            height,
		Visits:            make([]int, width*height),
		Waits:             make([]int, width*height),
		LeadTime:          make(map[OrderID]int),
		UnreachableOrders: make(map[OrderID]bool),
	}
}

func (m *Metrics) index(c Cell) int { return c.Row*m.Width + c.Col }

// RecordVisit increments the visit counter for c.
func (m *Metrics) RecordVisit(c Cell) { m.Visits[m.index(c)]++ }

// RecordWait increments the wait counter for c.
func (m *Metrics) RecordWait(c Cell) { m.Waits[m.index(c)]++ }

// RecordUnreachable counts an unreachable pathfinding attempt against id
// and marks the order as currently unreachable.
func (m *Metrics) RecordUnreachable(id OrderID) {
	m.UnreachableAttempts++
	m.UnreachableOrders[id] = true
}

// RecordCompleted records a finished order, clearing any unreachable mark
// it may have accumulated earlier in its life.
func (m *Metrics) RecordCompleted(id OrderID, leadTime int) {
	m.OrdersCompleted++
	m.LeadTime[id] = leadTime
	delete(m.UnreachableOrders, id)
}
