package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/joshuapare/memfit/internal/config"
	"github.com/joshuapare/memfit/internal/logger"
	"github.com/joshuapare/memfit/internal/metrics"
	"github.com/joshuapare/memfit/internal/sim"
	"github.com/joshuapare/memfit/internal/trace"
	"github.com/joshuapare/memfit/internal/workload"
)

// autoTracePath is the --trace value that lets the trace writer pick a
// unique file name.
const autoTracePath = "auto"

var (
	runStrategy  string
	runCapacity  int
	runSteps     int
	runSeed      int64
	runProcesses string
	runTrace     string
	runMetrics   string
	runVerify    bool
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the allocation simulation",
		Long: `The run command drives a fresh memory region once per strategy. Each step
picks a process at random: a live process is released, any other is placed.
Every strategy replays the same picks for a given seed.

Settings come from MEMSIM_* environment variables or an env file; flags
override them.

Example:
  memsim run
  memsim run --strategy best,worst --seed 42
  memsim run --capacity 64 --steps 100 --processes A:7,B:3,C:12
  memsim run --json --trace run.csv --metrics memsim.prom
  memsim run --trace auto`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd.Flags())
		},
	}

	cmd.Flags().StringVar(&runStrategy, "strategy", "all", "Strategies to run: all, or a list such as first,best")
	cmd.Flags().IntVar(&runCapacity, "capacity", 32, "Units in the memory region")
	cmd.Flags().IntVar(&runSteps, "steps", 30, "Steps per strategy")
	cmd.Flags().Int64Var(&runSeed, "seed", 0, "Workload seed (0 picks one from the clock)")
	cmd.Flags().StringVar(&runProcesses, "processes", "", "Process list as ID:size pairs, e.g. P1:5,P2:4")
	cmd.Flags().StringVar(&runTrace, "trace", "", `Write every step to this CSV file ("auto" picks a name)`)
	cmd.Flags().StringVar(&runMetrics, "metrics", "", "Write Prometheus metrics to this textfile")
	cmd.Flags().BoolVar(&runVerify, "verify", true, "Check allocator invariants after every step")

	return cmd
}

func runSimulation(flags *pflag.FlagSet) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyRunFlags(cfg, flags); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := initLogging(cfg); err != nil {
		return err
	}

	m := metrics.New()
	opts := []sim.RunOption{
		sim.WithLogger(logger.L),
		sim.WithObserver(m),
	}

	var tw *trace.CSVWriter
	if cfg.TracePath != "" {
		path := cfg.TracePath
		if path == autoTracePath {
			path = ""
		}
		tw = trace.NewCSVWriter(path)
		if err := tw.Init(); err != nil {
			return err
		}
		defer tw.Close()
		opts = append(opts, sim.WithSink(tw))
	}

	if !cfg.Verify {
		logger.Warn("invariant checks disabled")
	}

	runner := sim.NewRunner(cfg, opts...)
	printVerbose("Capacity: %d units, %d steps, seed %d\n", cfg.Capacity, cfg.Steps, runner.Seed())
	printVerbose("Processes: %s\n", workload.Format(cfg.Processes))
	logger.Debug("starting simulation", "strategies", len(cfg.Strategies), "seed", runner.Seed())

	results, err := runner.RunAll()
	if err != nil {
		logger.Error("simulation failed", "seed", runner.Seed(), "err", err)
		return fmt.Errorf("simulation failed: %w", err)
	}

	for _, res := range results {
		m.RecordFragmentation(res.Strategy, res.Fragmentation)
	}
	if cfg.MetricsPath != "" {
		if err := m.WriteTextfile(cfg.MetricsPath); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		logger.Info("metrics written", "path", cfg.MetricsPath)
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			return err
		}
		logger.Info("trace written", "path", tw.Path())
	}

	if jsonOut {
		return printJSON(runReport{
			Seed:     runner.Seed(),
			Capacity: cfg.Capacity,
			Steps:    cfg.Steps,
			Results:  results,
		})
	}

	if !quiet {
		if err := sim.WriteText(os.Stdout, results); err != nil {
			return err
		}
	}
	if tw != nil {
		printVerbose("Trace written to %s\n", tw.Path())
	}
	if cfg.MetricsPath != "" {
		printVerbose("Metrics written to %s\n", cfg.MetricsPath)
	}
	return nil
}

type runReport struct {
	Seed     int64        `json:"seed"`
	Capacity int          `json:"capacity"`
	Steps    int          `json:"steps"`
	Results  []sim.Result `json:"results"`
}

// applyRunFlags overrides config values with the flags the user set.
func applyRunFlags(cfg *config.Config, flags *pflag.FlagSet) error {
	if flags.Changed("strategy") {
		kinds, err := config.ParseStrategies(runStrategy)
		if err != nil {
			return err
		}
		cfg.Strategies = kinds
	}
	if flags.Changed("capacity") {
		cfg.Capacity = runCapacity
	}
	if flags.Changed("steps") {
		cfg.Steps = runSteps
	}
	if flags.Changed("seed") {
		cfg.Seed = runSeed
	}
	if flags.Changed("processes") {
		procs, err := workload.Parse(runProcesses)
		if err != nil {
			return err
		}
		cfg.Processes = procs
	}
	if flags.Changed("trace") {
		cfg.TracePath = runTrace
	}
	if flags.Changed("metrics") {
		cfg.MetricsPath = runMetrics
	}
	if flags.Changed("verify") {
		cfg.Verify = runVerify
	}
	return nil
}

// initLogging enables the global logger when --verbose or --log-level is
// given. Otherwise log output is discarded and only the report is printed.
func initLogging(cfg *config.Config) error {
	if !verbose && logLevel == "" {
		logger.Init(logger.Options{Enabled: false})
		return nil
	}

	name := cfg.LogLevel
	if logLevel != "" {
		name = logLevel
	}
	level, err := logger.ParseLevel(name)
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger.Init(logger.Options{
		Enabled: true,
		Writer:  os.Stderr,
		Level:   level,
		JSON:    jsonOut,
	})
	return nil
}
