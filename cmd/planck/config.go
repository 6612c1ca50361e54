package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planckhq/planck/internal/config"
	"github.com/planckhq/planck/internal/pattern"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after merging defaults, the user
config file, any project .planck.yaml, and PLANCK_* environment variables.`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	bold := color.New(color.Bold)

	bold.Println("executor")
	fmt.Printf("  max_concurrency:     %d\n", cfg.Executor.MaxConcurrency)
	fmt.Printf("  call_timeout:        %s\n", cfg.Executor.CallTimeout)
	fmt.Printf("  fail_fast:           %v\n", cfg.Executor.FailFast)
	fmt.Printf("  strict_dependencies: %v\n", cfg.Executor.StrictDependencies)

	dbPath := cfg.Patterns.DBPath
	if dbPath == "" {
		dbPath = pattern.DefaultDBPath()
	}
	bold.Println("patterns")
	fmt.Printf("  db_path: %s\n", dbPath)

	bold.Println("output")
	fmt.Printf("  format: %s\n", cfg.Output.Format)

	fmt.Printf("\nuser config file: %s\n", config.GetUserConfigPath())
	return nil
}
