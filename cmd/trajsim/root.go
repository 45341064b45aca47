// Package main provides the trajsim command-line interface. It loads a
// scenario from a YAML file, runs it, and reports what happened.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/trajsim/sim"
	"github.com/sarchlab/trajsim/simulation"
	"github.com/sarchlab/trajsim/tracing"
)

var (
	configPath string
	runUntil   float64
	verbose    bool
	csvPath    string
	dbPath     string
	monitorOn  bool
	port       int
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "trajsim",
	Short: "trajsim runs trajectory-based queueing simulations.",
	Long: `trajsim runs trajectory-based queueing simulations. A scenario ` +
		`file describes resources, trajectories, generators, and resource ` +
		`managers; trajsim runs the scenario over virtual time and reports ` +
		`per-resource statistics and arrival counts.`,
	RunE: runScenario,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"scenario YAML file")
	rootCmd.MarkPersistentFlagRequired("config")

	rootCmd.Flags().Float64VarP(&runUntil, "until", "u", 1000,
		"virtual time to run until")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"log every dispatched event")
	rootCmd.Flags().StringVar(&csvPath, "csv", "",
		"write the monitoring trace to a CSV file at this path plus .csv")
	rootCmd.Flags().StringVar(&dbPath, "db", "",
		"record the monitoring trace to a SQLite file at this path plus .sqlite3")
	rootCmd.Flags().BoolVar(&monitorOn, "monitor", false,
		"serve the monitoring API while running")
	rootCmd.Flags().IntVar(&port, "port", 0,
		"port of the monitoring API")

	rootCmd.AddCommand(describeCmd)
}

func runScenario(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadScenario(configPath)
	if err != nil {
		return err
	}

	builder := simulation.MakeBuilder().WithName(cfg.Name)
	if verbose {
		builder = builder.WithVerbose()
	}
	if monitorOn {
		builder = builder.WithMonitorPort(port)
	} else {
		builder = builder.WithoutMonitoring()
	}
	if dbPath == "" {
		builder = builder.WithoutRecording()
	} else {
		builder = builder.WithOutputFileName(dbPath)
	}

	sm := builder.Build()
	defer sm.Terminate()

	s := sm.Simulator()

	summary := tracing.NewSummaryTracer()
	tracing.CollectTrace(s, summary)

	if csvPath != "" {
		csv := tracing.NewCSVTraceWriter(csvPath)
		csv.Init()
		tracing.CollectTrace(s, csv)
		defer csv.Flush()
	}

	_, err = cfg.Apply(s)
	if err != nil {
		return err
	}

	s.Run(sim.VTimeInSec(runUntil))

	fmt.Fprintf(cmd.OutOrStdout(), "simulation %s ended at t=%g\n",
		cfg.Name, float64(s.Now()))
	fmt.Fprint(cmd.OutOrStdout(), summary.Report())

	return nil
}

// describeCmd prints the activities of every trajectory of a scenario.
var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the trajectories of a scenario.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := LoadScenario(configPath)
		if err != nil {
			return err
		}

		s := sim.NewSimulator(cfg.Name, false)
		scenario, err := cfg.Apply(s)
		if err != nil {
			return err
		}

		for _, t := range cfg.Trajectories {
			fmt.Fprintf(cmd.OutOrStdout(), "trajectory %s:\n", t.Name)
			for _, act := range scenario.Trajectory(t.Name) {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", act)
			}
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
