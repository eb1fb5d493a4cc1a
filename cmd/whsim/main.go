// Command whsim runs the warehouse robot simulator against a scenario
// directory and writes metrics.json into it.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Jaaziel21/Sim-CEDIS/internal/config"
	"github.com/Jaaziel21/Sim-CEDIS/internal/metrics"
	"github.com/Jaaziel21/Sim-CEDIS/internal/obslog"
	"github.com/Jaaziel21/Sim-CEDIS/internal/scenario"
	"github.com/Jaaziel21/Sim-CEDIS/internal/sim"
)

var (
	cfgPath     string
	seed        int64
	robots      int
	horizonTick int
	verbose     bool
	outputFile  string
)

var rootCmd = &cobra.Command{
	Use:   "whsim <scenario_dir>",
	Short: "Deterministic warehouse robot fleet simulator",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulation,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "optional run config file (YAML or JSON)")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "override seed from config/defaults")
	rootCmd.Flags().IntVar(&robots, "robots", 0, "override robot count from config/defaults")
	rootCmd.Flags().IntVar(&horizonTick, "horizon-ticks", 0, "override simulation horizon from config/defaults")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "enable human-readable console logging")
	rootCmd.Flags().StringVar(&outputFile, "output", "", "override metrics.json path, relative to scenario_dir if not absolute")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	scenarioDir := args[0]

	cfg := config.Defaults()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("robots") {
		cfg.Robots = robots
	}
	if cmd.Flags().Changed("horizon-ticks") {
		cfg.HorizonTick = horizonTick
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputFile = outputFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := obslog.New("whsim", cfg.Verbose)
	log.Infof("loading scenario from %s", scenarioDir)

	sc, orders, err := scenario.Load(scenarioDir)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	fleet, err := scenario.SpawnRobots(sc, cfg.Robots)
	if err != nil {
		return fmt.Errorf("spawn robots: %w", err)
	}

	log.Infof("running %d robots over %d orders for %d ticks (seed=%d)", cfg.Robots, len(orders), cfg.HorizonTick, cfg.Seed)

	scheduler := sim.New(sc, fleet, orders)
	raw := scheduler.Run(cfg.HorizonTick)
	report := metrics.Finalize(raw, scheduler.Robots, scheduler.TotalOrders, cfg.HorizonTick)

	outPath := cfg.OutputFile
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(scenarioDir, outPath)
	}
	if err := scenario.WriteMetrics(outPath, report); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	log.Infof("wrote metrics to %s: completed=%d pending=%d unreachable=%d deadlock_ticks=%d",
		outPath, report.OrdersCompleted, report.OrdersPending, report.OrdersUnreachable, report.DeadlockTicks)
	return nil
}
