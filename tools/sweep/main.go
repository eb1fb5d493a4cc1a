// Command sweep runs the simulator against every scenario directory under
// -input concurrently and collects one CSV row per scenario. This is the
// one place in the module where scenarios run in parallel: the core itself
// is single-threaded and synchronous per run, but independent scenarios
// share no state, so a worker pool above the core is safe.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Jaaziel21/Sim-CEDIS/internal/metrics"
	"github.com/Jaaziel21/Sim-CEDIS/internal/obslog"
	"github.com/Jaaziel21/Sim-CEDIS/internal/scenario"
	"github.com/Jaaziel21/Sim-CEDIS/internal/sim"
)

// sweepResult is one CSV row: a scenario's metrics plus the wall-clock time
// its run took, for comparing sweep configurations across machines.
type sweepResult struct {
	Scenario        string
	RuntimeMs       float64
	OrdersCompleted int
	OrdersPending   int
	Unreachable     int
	DeadlockTicks   int
	TotalDistance   int
	Throughput      float64
	MeanLeadTime    float64
	MeanUtilization float64
	Err             string
}

func findScenarios(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		candidate := filepath.Join(inputDir, e.Name())
		if _, err := os.Stat(filepath.Join(candidate, "layout.json")); err == nil {
			dirs = append(dirs, candidate)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func runOne(dir string, robots, horizonTicks int) sweepResult {
	res := sweepResult{Scenario: filepath.Base(dir)}
	start := time.Now()

	sc, orders, err := scenario.Load(dir)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	fleet, err := scenario.SpawnRobots(sc, robots)
	if err != nil {
		res.Err = err.Error()
		return res
	}

	scheduler := sim.New(sc, fleet, orders)
	raw := scheduler.Run(horizonTicks)
	report := metrics.Finalize(raw, scheduler.Robots, scheduler.TotalOrders, horizonTicks)

	if err := scenario.WriteMetrics(filepath.Join(dir, "metrics.json"), report); err != nil {
		res.Err = err.Error()
		return res
	}

	res.RuntimeMs = float64(time.Since(start).Microseconds()) / 1000.0
	res.OrdersCompleted = report.OrdersCompleted
	res.OrdersPending = report.OrdersPending
	res.Unreachable = report.OrdersUnreachable
	res.DeadlockTicks = report.DeadlockTicks
	res.TotalDistance = report.TotalDistance
	res.Throughput = report.Throughput
	res.MeanLeadTime = report.MeanLeadTime
	res.MeanUtilization = report.MeanUtilization
	return res
}

func writeCSV(results []sweepResult, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"scenario", "runtime_ms", "orders_completed", "orders_pending", "orders_unreachable",
		"deadlock_ticks", "total_distance", "throughput", "mean_lead_time", "mean_utilization", "error",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Scenario,
			fmt.Sprintf("%.3f", r.RuntimeMs),
			fmt.Sprintf("%d", r.OrdersCompleted),
			fmt.Sprintf("%d", r.OrdersPending),
			fmt.Sprintf("%d", r.Unreachable),
			fmt.Sprintf("%d", r.DeadlockTicks),
			fmt.Sprintf("%d", r.TotalDistance),
			fmt.Sprintf("%.6f", r.Throughput),
			fmt.Sprintf("%.3f", r.MeanLeadTime),
			fmt.Sprintf("%.3f", r.MeanUtilization),
			r.Err,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	inputDir := flag.String("input", "scenarios", "directory containing one subdirectory per scenario")
	outputFile := flag.String("output", "evidence/sweep_results.csv", "output CSV file")
	robots := flag.Int("robots", 5, "robot count applied to every scenario in the sweep")
	horizonTicks := flag.Int("horizon-ticks", 5000, "tick horizon applied to every scenario in the sweep")
	workers := flag.Int("workers", runtime.NumCPU(), "maximum concurrent scenario runs")
	verbose := flag.Bool("verbose", false, "enable per-scenario log lines")
	flag.Parse()

	log := obslog.New("sweep", *verbose)

	dirs, err := findScenarios(*inputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error finding scenarios: %v\n", err)
		os.Exit(1)
	}
	if len(dirs) == 0 {
		fmt.Fprintf(os.Stderr, "no scenario directories found under %s\n", *inputDir)
		os.Exit(1)
	}

	log.Infof("running %d scenarios with up to %d workers (robots=%d, horizon_ticks=%d)",
		len(dirs), *workers, *robots, *horizonTicks)

	jobs := make(chan string)
	resultsCh := make(chan sweepResult)

	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for dir := range jobs {
				r := runOne(dir, *robots, *horizonTicks)
				if r.Err != "" {
					log.Warnf("%s failed: %s", r.Scenario, r.Err)
				} else {
					log.Debugf("%s done in %.1fms, completed=%d", r.Scenario, r.RuntimeMs, r.OrdersCompleted)
				}
				resultsCh <- r
			}
		}()
	}

	go func() {
		for _, d := range dirs {
			jobs <- d
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	var results []sweepResult
	for r := range resultsCh {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Scenario < results[j].Scenario })

	if err := writeCSV(results, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "error writing results: %v\n", err)
		os.Exit(1)
	}
	log.Infof("wrote %d rows to %s", len(results), *outputFile)
}
