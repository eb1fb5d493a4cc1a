// Package scenario loads the on-disk artifacts that make up a <scenario>
// directory (layout, shelves, stations, spawn, orders) into the core domain
// model, and serializes a finished run's metrics report back out as
// metrics.json. It is the sole boundary between the simulation core and the
// filesystem; the core itself never touches a path.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Jaaziel21/Sim-CEDIS/internal/core"
	"github.com/Jaaziel21/Sim-CEDIS/internal/metrics"
)

// layoutFile is the sidecar-declared dense grid: a row-major W*H array of
// cell-type codes plus the declared dimensions, matching core.CellType's
// numeric encoding (0=free, 1=shelf, 2=station, 3=spawn, 4=obstacle).
type layoutFile struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Cells  []int `json:"cells"`
}

type shelfRecord struct {
	ID  int `json:"id"`
	Row int `json:"row"`
	Col int `json:"col"`
}

type stationRecord struct {
	ID  int `json:"id"`
	Row int `json:"row"`
	Col int `json:"col"`
}

type spawnRecord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type orderRecord struct {
	ID        int `json:"id"`
	Tick      int `json:"tick"`
	ShelfID   int `json:"shelf_id"`
	StationID int `json:"station_id"`
}

// Load reads layout.json, shelves.json, stations.json, spawn.json, and
// orders.json from dir and builds the static scenario plus the full order
// set. Orders are returned sorted by (tick, id) — the order the external
// generator is contracted to emit them in, re-asserted here defensively.
func Load(dir string) (*core.Scenario, []*core.Order, error) {
	var lf layoutFile
	if err := readJSON(filepath.Join(dir, "layout.json"), &lf); err != nil {
		return nil, nil, err
	}
	if lf.Width <= 0 || lf.Height <= 0 {
		return nil, nil, fmt.Errorf("scenario %s: layout.json: width and height must be positive", dir)
	}
	if len(lf.Cells) != lf.Width*lf.Height {
		return nil, nil, fmt.Errorf("scenario %s: layout.json: cells has %d entries, want %d (%d x %d)",
			dir, len(lf.Cells), lf.Width*lf.Height, lf.Width, lf.Height)
	}
	cells := make([]core.CellType, len(lf.Cells))
	for i, v := range lf.Cells {
		cells[i] = core.CellType(v)
	}
	grid := core.NewGrid(lf.Width, lf.Height, cells)

	sc := core.NewScenario(grid)

	var shelves []shelfRecord
	if err := readJSON(filepath.Join(dir, "shelves.json"), &shelves); err != nil {
		return nil, nil, err
	}
	seenShelf := make(map[int]bool, len(shelves))
	for _, s := range shelves {
		if seenShelf[s.ID] {
			return nil, nil, fmt.Errorf("scenario %s: shelves.json: duplicate shelf id %d", dir, s.ID)
		}
		seenShelf[s.ID] = true
		sc.Shelves[core.ShelfID(s.ID)] = &core.Shelf{ID: core.ShelfID(s.ID), Anchor: core.Cell{Row: s.Row, Col: s.Col}}
	}

	var stations []stationRecord
	if err := readJSON(filepath.Join(dir, "stations.json"), &stations); err != nil {
		return nil, nil, err
	}
	seenStation := make(map[int]bool, len(stations))
	for _, s := range stations {
		if seenStation[s.ID] {
			return nil, nil, fmt.Errorf("scenario %s: stations.json: duplicate station id %d", dir, s.ID)
		}
		seenStation[s.ID] = true
		sc.Stations[core.StationID(s.ID)] = &core.Station{ID: core.StationID(s.ID), Cell: core.Cell{Row: s.Row, Col: s.Col}}
	}

	var spawns []spawnRecord
	if err := readJSON(filepath.Join(dir, "spawn.json"), &spawns); err != nil {
		return nil, nil, err
	}
	for _, s := range spawns {
		sc.Spawn = append(sc.Spawn, core.Cell{Row: s.Row, Col: s.Col})
	}

	if err := sc.Validate(); err != nil {
		return nil, nil, fmt.Errorf("scenario %s: %w", dir, err)
	}

	var orderRecs []orderRecord
	if err := readJSON(filepath.Join(dir, "orders.json"), &orderRecs); err != nil {
		return nil, nil, err
	}
	orders := make([]*core.Order, len(orderRecs))
	for i, o := range orderRecs {
		order := &core.Order{
			ID:           core.OrderID(o.ID),
			CreationTick: o.Tick,
			ShelfID:      core.ShelfID(o.ShelfID),
			StationID:    core.StationID(o.StationID),
		}
		if err := sc.ValidateOrder(order); err != nil {
			return nil, nil, fmt.Errorf("scenario %s: orders.json: %w", dir, err)
		}
		orders[i] = order
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreationTick != orders[j].CreationTick {
			return orders[i].CreationTick < orders[j].CreationTick
		}
		return orders[i].ID < orders[j].ID
	})

	return sc, orders, nil
}

// SpawnRobots places count robots on the scenario's spawn points in
// ascending cell order (row, then column), wrapping around the spawn set if
// there are more robots than declared spawn cells. Robot ids are assigned
// 0..count-1 in placement order, which is what makes dispatcher tie-breaks
// reproducible across runs that only vary the robot count.
func SpawnRobots(sc *core.Scenario, count int) ([]*core.Robot, error) {
	if len(sc.Spawn) == 0 {
		return nil, fmt.Errorf("scenario has no spawn points, cannot place %d robots", count)
	}
	spawn := make([]core.Cell, len(sc.Spawn))
	copy(spawn, sc.Spawn)
	sort.Slice(spawn, func(i, j int) bool { return spawn[i].Less(spawn[j]) })

	robots := make([]*core.Robot, count)
	for i := 0; i < count; i++ {
		robots[i] = core.NewRobot(core.RobotID(i), spawn[i%len(spawn)])
	}
	return robots, nil
}

// metricsFile is the on-disk shape of metrics.json: the scalar figures
// inline, and the three heatmaps as dense 2D arrays.
type metricsFile struct {
	OrdersCompleted     int         `json:"orders_completed"`
	OrdersPending       int         `json:"orders_pending"`
	OrdersUnreachable   int         `json:"orders_unreachable"`
	UnreachableAttempts int         `json:"unreachable_attempts"`
	Throughput          float64     `json:"throughput"`
	MeanLeadTime        float64     `json:"mean_lead_time"`
	MeanUtilization     float64     `json:"mean_utilization"`
	DeadlockTicks       int         `json:"deadlock_ticks"`
	TotalDistance       int         `json:"total_distance"`
	Visits              [][]float64 `json:"visits"`
	Waits               [][]float64 `json:"waits"`
	Ratio               [][]float64 `json:"ratio"`
}

// WriteMetrics serializes report to path as indented JSON. Field order and
// float formatting are fixed by encoding/json, which is what makes the
// determinism contract (identical inputs produce byte-identical
// metrics.json) hold across repeated runs on the same machine.
func WriteMetrics(path string, report *metrics.Report) error {
	out := metricsFile{
		OrdersCompleted:     report.OrdersCompleted,
		OrdersPending:       report.OrdersPending,
		OrdersUnreachable:   report.OrdersUnreachable,
		UnreachableAttempts: report.UnreachableAttempts,
		Throughput:          report.Throughput,
		MeanLeadTime:        report.MeanLeadTime,
		MeanUtilization:     report.MeanUtilization,
		DeadlockTicks:       report.DeadlockTicks,
		TotalDistance:       report.TotalDistance,
		Visits:              report.Visits,
		Waits:               report.Waits,
		Ratio:               report.Ratio,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
