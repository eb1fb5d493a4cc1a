package scenario

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaaziel21/Sim-CEDIS/internal/core"
	"github.com/Jaaziel21/Sim-CEDIS/internal/metrics"
)

// writeScenarioFiles lays out a minimal 3x3 scenario: free border, one
// shelf at (1,1), one station at (2,2), a single spawn cell at (0,0).
func writeScenarioFiles(t *testing.T, dir string) {
	t.Helper()
	writeJSON(t, filepath.Join(dir, "layout.json"), map[string]any{
		"width":  3,
		"height": 3,
		"cells": []int{
			0, 0, 0,
			0, 1, 0,
			0, 0, 2,
		},
	})
	writeJSON(t, filepath.Join(dir, "shelves.json"), []map[string]any{
		{"id": 0, "row": 1, "col": 1},
	})
	writeJSON(t, filepath.Join(dir, "stations.json"), []map[string]any{
		{"id": 0, "row": 2, "col": 2},
	})
	writeJSON(t, filepath.Join(dir, "spawn.json"), []map[string]any{
		{"row": 0, "col": 0},
	})
	writeJSON(t, filepath.Join(dir, "orders.json"), []map[string]any{
		{"id": 1, "tick": 5, "shelf_id": 0, "station_id": 0},
		{"id": 0, "tick": 5, "shelf_id": 0, "station_id": 0},
		{"id": 2, "tick": 0, "shelf_id": 0, "station_id": 0},
	})
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestLoadBuildsScenarioAndOrders(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFiles(t, dir)

	sc, orders, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, sc.Grid.Width)
	assert.Equal(t, 3, sc.Grid.Height)
	assert.Equal(t, core.Cell{Row: 1, Col: 1}, sc.Shelves[0].Anchor)
	assert.Equal(t, core.Cell{Row: 2, Col: 2}, sc.Stations[0].Cell)
	assert.Equal(t, []core.Cell{{Row: 0, Col: 0}}, sc.Spawn)

	require.Len(t, orders, 3)
	// sorted by (tick, id): order 2 at tick 0, then 0 and 1 at tick 5.
	assert.Equal(t, core.OrderID(2), orders[0].ID)
	assert.Equal(t, core.OrderID(0), orders[1].ID)
	assert.Equal(t, core.OrderID(1), orders[2].ID)
}

func TestLoadRejectsDuplicateShelfID(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFiles(t, dir)
	writeJSON(t, filepath.Join(dir, "shelves.json"), []map[string]any{
		{"id": 0, "row": 1, "col": 1},
		{"id": 0, "row": 2, "col": 0},
	})

	_, _, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsOrderWithUnknownShelf(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFiles(t, dir)
	writeJSON(t, filepath.Join(dir, "orders.json"), []map[string]any{
		{"id": 0, "tick": 0, "shelf_id": 99, "station_id": 0},
	})

	_, _, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsMismatchedCellCount(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFiles(t, dir)
	writeJSON(t, filepath.Join(dir, "layout.json"), map[string]any{
		"width":  3,
		"height": 3,
		"cells":  []int{0, 0, 0},
	})

	_, _, err := Load(dir)
	assert.Error(t, err)
}

func TestSpawnRobotsWrapsAroundSpawnSet(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFiles(t, dir)
	sc, _, err := Load(dir)
	require.NoError(t, err)

	robots, err := SpawnRobots(sc, 3)
	require.NoError(t, err)
	require.Len(t, robots, 3)
	for i, r := range robots {
		assert.Equal(t, core.RobotID(i), r.ID)
		assert.Equal(t, core.Cell{Row: 0, Col: 0}, r.CurrentCell)
	}
}

func TestSpawnRobotsRejectsEmptySpawnSet(t *testing.T) {
	sc := core.NewScenario(core.NewGrid(1, 1, []core.CellType{core.Free}))
	_, err := SpawnRobots(sc, 1)
	assert.Error(t, err)
}

func TestWriteMetricsRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.json")

	report := &metrics.Report{
		OrdersCompleted: 2,
		OrdersPending:   1,
		Throughput:      0.002,
		MeanLeadTime:    12.5,
		MeanUtilization: 0.3,
		DeadlockTicks:   4,
		TotalDistance:   28,
		Visits:          [][]float64{{1, 0}, {0, 2}},
		Waits:           [][]float64{{0, 0}, {0, 1}},
		Ratio:           [][]float64{{0, 0}, {0, 0.5}},
	}

	require.NoError(t, WriteMetrics(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got metricsFile
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, report.OrdersCompleted, got.OrdersCompleted)
	assert.Equal(t, report.TotalDistance, got.TotalDistance)
	assert.Equal(t, report.Ratio, got.Ratio)
}
