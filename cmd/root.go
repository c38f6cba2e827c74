package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/polysamo/BQC-testes/sim"
	"github.com/polysamo/BQC-testes/sim/trace"
)

var (
	// CLI flags shared by run and slices
	logLevel         string // Log verbosity level
	scenarioPath     string // Path to the scenario YAML file
	policyConfigPath string // Path to a policy bundle YAML file
	seed             int64  // Overrides the workload seed when set

	// CLI flags for run
	maxAttempts int    // Consecutive failed placements before a scheduling pass halts
	drainRounds int    // Scheduling passes after the last arrival
	traceLevel  string // Decision trace level
	metricsOut  string // Prometheus textfile output path

	// CLI flags for slices
	strategy string // Slice allocation strategy
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "bqc-testes",
	Short: "Admission control and timeslot scheduling simulator for shared quantum networks",
}

// setup applies the log level and loads the scenario and the optional policy bundle.
func setup(cmd *cobra.Command) (*Scenario, *sim.PolicyBundle) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)

	if scenarioPath == "" {
		logrus.Fatalf("Scenario file not provided (--scenario). Exiting simulation.")
	}
	sc, err := LoadScenario(scenarioPath)
	if err != nil {
		logrus.Fatalf("Failed to load scenario: %v", err)
	}
	if err := sc.Validate(); err != nil {
		logrus.Fatalf("Invalid scenario: %v", err)
	}
	if cmd.Flags().Changed("seed") && sc.Workload != nil {
		logrus.Infof("Overriding workload seed %d with --seed %d", sc.Workload.Seed, seed)
		sc.Workload.Seed = seed
	}

	var bundle *sim.PolicyBundle
	if policyConfigPath != "" {
		bundle, err = sim.LoadPolicyBundle(policyConfigPath)
		if err != nil {
			logrus.Fatalf("Failed to load policy config: %v", err)
		}
		if err := bundle.Validate(); err != nil {
			logrus.Fatalf("Invalid policy config: %v", err)
		}
	}
	return sc, bundle
}

// runCmd schedules requests online and dispatches every planned timeslot
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the online scheduler over a scenario",
	Run: func(cmd *cobra.Command, args []string) {
		sc, bundle := setup(cmd)
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}
		if drainRounds < 0 {
			logrus.Fatalf("--drain-rounds must be non-negative, got %d", drainRounds)
		}

		_, err := simulate(sc, runOptions{
			Policy:      bundle,
			MaxAttempts: maxAttempts,
			DrainRounds: drainRounds,
			TraceLevel:  traceLevel,
			MetricsOut:  metricsOut,
		}, os.Stdout)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// slicesCmd allocates requests over pre-partitioned slices and executes the schedule
var slicesCmd = &cobra.Command{
	Use:   "slices",
	Short: "Run the slice-based allocator over a scenario",
	Run: func(cmd *cobra.Command, args []string) {
		sc, bundle := setup(cmd)

		_, report, err := simulateSlices(sc, runOptions{Policy: bundle, Strategy: strategy}, os.Stdout)
		if err != nil {
			logrus.Fatalf("Slice simulation failed: %v", err)
		}
		logrus.Infof("Slice simulation complete: %d executed, %d failed", report.SuccessCount, report.FailureCount)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, slicesCmd} {
		c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the scenario YAML file")
		c.Flags().StringVar(&policyConfigPath, "policy-config", "", "Path to a policy bundle YAML file")
		c.Flags().Int64Var(&seed, "seed", 42, "Seed for workload generation (overrides the scenario's workload seed)")
	}

	runCmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Failed placements before a scheduling pass halts (0 = policy or default)")
	runCmd.Flags().IntVar(&drainRounds, "drain-rounds", 100, "Scheduling passes after the last arrival")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write Prometheus metrics to this textfile")

	slicesCmd.Flags().StringVar(&strategy, "strategy", "", "Slice allocation strategy (fixed-capacity, round-robin; empty = policy or fixed-capacity)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(slicesCmd)
}
