package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"procsched/internal/job"
	"procsched/internal/sched"
	"procsched/internal/sim"
)

var (
	// run flags
	configPath   string // YAML config file
	scenarioPath string // YAML scenario file; empty = generated workload
	policyName   string // overrides config policy
	sliceTicks   int    // overrides config slice_ticks
	maxTicks     int64  // overrides config max_ticks
	noTiePreempt bool   // STCF: keep the runner on equal remaining time
	csvPath      string // trace CSV output
	logLevel     string // overrides config log_level

	// workload flags, shared by run and gen
	genCfg = job.DefaultConfig()
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "schedsim",
	Short: "Discrete-event CPU scheduling simulator (rr, stcf, stride)",
}

// runCmd simulates a scenario under one policy and prints the report
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scheduling simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := sched.Load(configPath)
		if err != nil {
			return err
		}
		applyOverrides(cmd, &cfg)

		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		logrus.SetLevel(level)

		sc, err := loadOrGenerate()
		if err != nil {
			return err
		}

		s, err := sim.New(cfg, sc, logrus.StandardLogger())
		if err != nil {
			return err
		}
		report, err := s.Run()
		if err != nil {
			return err
		}
		report.Print(cmd.OutOrStdout())

		if csvPath != "" {
			if err := report.SaveCSV(csvPath); err != nil {
				return err
			}
			logrus.Infof("Trace written to %s", csvPath)
		}
		return nil
	},
}

// genCmd prints a synthetic scenario as YAML
var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a synthetic scenario file",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := job.Generate(genCfg)
		if err != nil {
			return err
		}
		data, err := sc.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// applyOverrides copies explicitly set flags over the loaded config.
func applyOverrides(cmd *cobra.Command, cfg *sched.Config) {
	flags := cmd.Flags()
	if flags.Changed("policy") {
		cfg.Policy = policyName
	}
	if flags.Changed("slice") {
		cfg.SliceTicks = sliceTicks
	}
	if flags.Changed("max-ticks") {
		cfg.MaxTicks = maxTicks
	}
	if flags.Changed("no-tie-preempt") {
		cfg.STCFPreemptOnTie = !noTiePreempt
	}
	if flags.Changed("log") {
		cfg.LogLevel = logLevel
	}
	cfg.Clamp()
}

func loadOrGenerate() (sim.Scenario, error) {
	if scenarioPath != "" {
		return sim.LoadScenario(scenarioPath)
	}
	logrus.Infof("No scenario given, generating %d processes with seed %d", genCfg.Processes, genCfg.Seed)
	return job.Generate(genCfg)
}

func addWorkloadFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&genCfg.Seed, "seed", genCfg.Seed, "Seed for workload generation")
	cmd.Flags().IntVar(&genCfg.Processes, "procs", genCfg.Processes, "Number of generated processes")
	cmd.Flags().Int64Var(&genCfg.MaxArrival, "max-arrival", genCfg.MaxArrival, "Latest arrival tick")
	cmd.Flags().Int64Var(&genCfg.MinCPU, "min-cpu", genCfg.MinCPU, "Shortest CPU burst (ticks)")
	cmd.Flags().Int64Var(&genCfg.MaxCPU, "max-cpu", genCfg.MaxCPU, "Longest CPU burst (ticks)")
	cmd.Flags().Int64Var(&genCfg.MinIO, "min-io", genCfg.MinIO, "Shortest I/O burst (ticks)")
	cmd.Flags().Int64Var(&genCfg.MaxIO, "max-io", genCfg.MaxIO, "Longest I/O burst (ticks)")
	cmd.Flags().IntVar(&genCfg.MaxIOBursts, "max-io-bursts", genCfg.MaxIOBursts, "Most times a process blocks")
	cmd.Flags().IntSliceVar(&genCfg.TicketLevels, "tickets", genCfg.TicketLevels, "Ticket counts to draw from")
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML config file (defaults when empty)")
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file (generated workload when empty)")
	runCmd.Flags().StringVar(&policyName, "policy", sched.PolicyRoundRobin, fmt.Sprintf("Scheduling policy %v", sched.PolicyNames()))
	runCmd.Flags().IntVar(&sliceTicks, "slice", 5, "Time slice length in ticks (rr, stride)")
	runCmd.Flags().Int64Var(&maxTicks, "max-ticks", 1000000, "Abort the run after this many ticks")
	runCmd.Flags().BoolVar(&noTiePreempt, "no-tie-preempt", false, "STCF: do not preempt on equal remaining time")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "Write the event trace to this CSV file")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	addWorkloadFlags(runCmd)
	addWorkloadFlags(genCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.SilenceUsage = true
}
