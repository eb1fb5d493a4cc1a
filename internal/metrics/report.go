// Package metrics turns the scheduler's raw accumulator into the
// serializable report described by the external metrics.json contract:
// completed/pending/unreachable order counts, the derived throughput,
// mean lead time, and mean utilization figures, and the three per-cell
// heatmap arrays.
package metrics

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Jaaziel21/Sim-CEDIS/internal/core"
)

// Report is the finalized, JSON-serializable output of a simulation run.
type Report struct {
	OrdersCompleted     int     `json:"orders_completed"`
	OrdersPending       int     `json:"orders_pending"`
	OrdersUnreachable   int     `json:"orders_unreachable"`
	UnreachableAttempts int     `json:"unreachable_attempts"`
	DeadlockTicks       int     `json:"deadlock_ticks"`
	TotalDistance       int     `json:"total_distance"`
	Throughput          float64 `json:"throughput"`
	MeanLeadTime        float64 `json:"mean_lead_time"`
	MeanUtilization     float64 `json:"mean_utilization"`

	Visits [][]float64 `json:"visits"`
	Waits  [][]float64 `json:"waits"`
	Ratio  [][]float64 `json:"ratio"`
}

// Finalize computes a Report from the scheduler's raw metrics. totalOrders
// is the full count of orders submitted to the run (including those never
// released because their creation tick exceeded the horizon); robots is
// the final robot roster, used for per-robot utilization; horizon is the
// number of ticks the run executed.
func Finalize(raw *core.Metrics, robots map[core.RobotID]*core.Robot, totalOrders, horizon int) *Report {
	unreachable := 0
	for id := range raw.UnreachableOrders {
		if _, completed := raw.LeadTime[id]; !completed {
			unreachable++
		}
	}
	pending := totalOrders - raw.OrdersCompleted - unreachable
	if pending < 0 {
		pending = 0
	}

	orderIDs := make([]core.OrderID, 0, len(raw.LeadTime))
	for id := range raw.LeadTime {
		orderIDs = append(orderIDs, id)
	}
	sort.Slice(orderIDs, func(i, j int) bool { return orderIDs[i] < orderIDs[j] })
	leadTimes := make([]float64, 0, len(orderIDs))
	for _, id := range orderIDs {
		leadTimes = append(leadTimes, float64(raw.LeadTime[id]))
	}

	robotIDs := make([]core.RobotID, 0, len(robots))
	for id := range robots {
		robotIDs = append(robotIDs, id)
	}
	sort.Slice(robotIDs, func(i, j int) bool { return robotIDs[i] < robotIDs[j] })
	utilizations := make([]float64, 0, len(robotIDs))
	if horizon > 0 {
		for _, id := range robotIDs {
			utilizations = append(utilizations, float64(robots[id].Stats.TicksMoving)/float64(horizon))
		}
	}

	throughput := 0.0
	if horizon > 0 {
		throughput = float64(raw.OrdersCompleted) / float64(horizon)
	}

	r := &Report{
		OrdersCompleted:     raw.OrdersCompleted,
		OrdersPending:       pending,
		OrdersUnreachable:   unreachable,
		UnreachableAttempts: raw.UnreachableAttempts,
		DeadlockTicks:       raw.DeadlockTicks,
		TotalDistance:       raw.TotalDistance,
		Throughput:          throughput,
		MeanLeadTime:        meanOrZero(leadTimes),
		MeanUtilization:     meanOrZero(utilizations),
		Visits:              reshape(raw.Visits, raw.Width, raw.Height),
		Waits:               reshape(raw.Waits, raw.Width, raw.Height),
	}
	r.Ratio = ratio(r.Visits, r.Waits)
	return r
}

func meanOrZero(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// reshape turns a row-major flat slice of counters into a Height x Width
// nested slice of float64, suitable for JSON serialization as a dense 2D
// float array per the metrics.json heatmap contract.
func reshape(flat []int, width, height int) [][]float64 {
	out := make([][]float64, height)
	for row := 0; row < height; row++ {
		out[row] = make([]float64, width)
		for col := 0; col < width; col++ {
			out[row][col] = float64(flat[row*width+col])
		}
	}
	return out
}

func ratio(visits, waits [][]float64) [][]float64 {
	out := make([][]float64, len(visits))
	for row := range visits {
		out[row] = make([]float64, len(visits[row]))
		for col := range visits[row] {
			v := visits[row][col]
			if v < 1 {
				v = 1
			}
			out[row][col] = waits[row][col] / v
		}
	}
	return out
}
