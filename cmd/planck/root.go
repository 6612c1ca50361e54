package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "planck",
	Short: "Task planning and batch execution core",
	Long: `Planck turns free-form task descriptions into ordered, risk-scored
subtask plans, picks an execution strategy for them, matches tasks against
previously learned patterns, and executes dependency-annotated call batches
with bounded concurrency.

Core capabilities:
- Decomposes tasks into linear subtask chains with roles and risk levels
- Scores six execution strategies against task signals
- Learns success patterns and matches new tasks against them
- Runs dependency-ordered call batches with per-call timeouts`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
