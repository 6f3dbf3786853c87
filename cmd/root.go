package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	scenarioPath string // Path to the scenario YAML file
	logLevel     string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "plb",
	Short: "Multi-block domain decomposition and data-processor scheduling",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// mustLoadScenario loads the --config file or exits.
func mustLoadScenario() Scenario {
	sc, err := LoadScenario(scenarioPath)
	if err != nil {
		logrus.Fatalf("Invalid scenario %s: %v", scenarioPath, err)
	}
	return sc
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&scenarioPath, "config", "scenarios/default.yaml", "Path to the scenario YAML file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().BoolVar(&verify, "verify", false, "Repeat the run on a single block and fail on any difference")
	planCmd.Flags().StringVar(&planDomain, "domain", "bulk", "Domain kind of the planned generator (bulk, bulkAndEnvelope, envelope)")
	planCmd.Flags().StringVar(&planOut, "out", "", "CSV output path (default stdout)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
}
