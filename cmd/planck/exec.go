package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/planckhq/planck/internal/batch"
	"github.com/planckhq/planck/internal/config"
	"github.com/planckhq/planck/internal/exec"
	"github.com/planckhq/planck/pkg/models"
)

var (
	execMaxConcurrency int
	execCallTimeout    time.Duration
	execFailFast       bool
	execStrict         bool
	execOutput         string
)

var execCmd = &cobra.Command{
	Use:   "exec <batch.yaml>",
	Short: "Execute a batch of tool calls from a YAML file",
	Long: `Execute a batch of tool calls described in a YAML file.

Calls without dependencies run concurrently; calls that name another
call in depends_on wait for it to finish. Each call maps to a command
invocation:

  calls:
    - id: build
      name: make
      args:
        args: [build]
    - id: test
      name: make
      args:
        args: [test]
      depends_on: build
    - id: report
      name: shell
      args:
        command: "wc -l build.log | tee summary.txt"
        shell: true
      depends_on: test`,
	Args: cobra.ExactArgs(1),
	RunE: runExec,
}

// batchFile is the YAML shape accepted by "exec".
type batchFile struct {
	Calls []models.ToolCall `yaml:"calls"`
}

func init() {
	execCmd.Flags().IntVar(&execMaxConcurrency, "max-concurrency", 0, "Maximum concurrent calls per layer (0 = configured default)")
	execCmd.Flags().DurationVar(&execCallTimeout, "timeout", 0, "Per-call timeout (0 = configured default)")
	execCmd.Flags().BoolVar(&execFailFast, "fail-fast", false, "Stop scheduling new layers after a failure")
	execCmd.Flags().BoolVar(&execStrict, "strict", false, "Fail calls caught in dependency cycles instead of running them")
	execCmd.Flags().StringVarP(&execOutput, "output", "o", "", "Output format: text or yaml")
}

func runExec(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read batch file: %w", err)
	}
	var bf batchFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return fmt.Errorf("parse batch file: %w", err)
	}
	if len(bf.Calls) == 0 {
		return fmt.Errorf("batch file has no calls")
	}

	opts := []batch.Option{
		batch.WithMaxConcurrency(cfg.Executor.MaxConcurrency),
		batch.WithFailFast(cfg.Executor.FailFast || execFailFast),
		batch.WithStrictDependencies(cfg.Executor.StrictDependencies || execStrict),
	}
	if cfg.Executor.CallTimeout > 0 {
		opts = append(opts, batch.WithCallTimeout(cfg.Executor.CallTimeout))
	}
	if execMaxConcurrency > 0 {
		opts = append(opts, batch.WithMaxConcurrency(execMaxConcurrency))
	}
	if execCallTimeout > 0 {
		opts = append(opts, batch.WithCallTimeout(execCallTimeout))
	}

	runner := exec.NewRunner()
	executor := batch.NewExecutor(runner.CallFunc(), opts...)

	result := executor.ExecuteBatch(context.Background(), bf.Calls)

	format := cfg.Output.Format
	if execOutput != "" {
		format = execOutput
	}
	if format == "yaml" {
		out, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Print(string(out))
	} else {
		printBatchText(result)
	}

	if result.FailureCount > 0 {
		return fmt.Errorf("%d of %d calls failed", result.FailureCount, len(result.Results))
	}
	return nil
}

func printBatchText(result *models.BatchResult) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	for _, r := range result.Results {
		if r.Success {
			green.Printf("ok   ")
		} else {
			red.Printf("FAIL ")
		}
		fmt.Printf("%s (%s)  %s\n", r.ID, r.Name, r.Elapsed)
		if r.Error != "" {
			fmt.Printf("     %s\n", r.Error)
		}
	}
	fmt.Printf("\n%d succeeded, %d failed in %s\n",
		result.SuccessCount, result.FailureCount, result.Elapsed)
}
