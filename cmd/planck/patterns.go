package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/planckhq/planck/internal/config"
	"github.com/planckhq/planck/internal/pattern"
	"github.com/planckhq/planck/pkg/models"
)

var (
	patternsAddFile        string
	patternsRecordFailed   bool
	patternsRecordDuration int64
	patternsTopLimit       int
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Manage learned task patterns",
	Long: `Manage the persisted store of learned task patterns.

Usage:
  planck patterns list                      # List stored patterns
  planck patterns top -n 5                  # Best patterns by success rate
  planck patterns add -f pattern.yaml       # Add a pattern from a YAML file
  planck patterns record <id> --duration 1200        # Record a success
  planck patterns record <id> --failed --duration 800 # Record a failure
  planck patterns delete <id>               # Delete a pattern
  planck patterns export                    # Dump all patterns as YAML`,
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *pattern.Store) error {
			patterns, err := store.LoadAll()
			if err != nil {
				return err
			}
			if len(patterns) == 0 {
				fmt.Println("No patterns stored.")
				return nil
			}
			for _, p := range patterns {
				printPattern(p)
			}
			return nil
		})
	},
}

var patternsTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the best patterns by success rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *pattern.Store) error {
			stored, err := store.LoadAll()
			if err != nil {
				return err
			}
			m := pattern.NewMatcher(nil)
			for _, p := range stored {
				m.AddPattern(p)
			}
			for _, p := range m.TopPatterns(patternsTopLimit) {
				printPattern(p)
			}
			return nil
		})
	},
}

// patternSpec is the YAML shape accepted by "patterns add".
type patternSpec struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Goal        string               `yaml:"goal"`
	Tasks       []models.PatternTask `yaml:"tasks"`
	Tools       []string             `yaml:"tools"`
}

var patternsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a pattern from a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if patternsAddFile == "" {
			return fmt.Errorf("a pattern file is required (-f pattern.yaml)")
		}
		data, err := os.ReadFile(patternsAddFile)
		if err != nil {
			return fmt.Errorf("read pattern file: %w", err)
		}
		var spec patternSpec
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return fmt.Errorf("parse pattern file: %w", err)
		}
		if spec.Goal == "" {
			return fmt.Errorf("pattern file must set a goal")
		}

		p := pattern.NewMatcher(nil).CreatePattern(pattern.CreateParams{
			Name:        spec.Name,
			Description: spec.Description,
			Goal:        spec.Goal,
			Tasks:       spec.Tasks,
			Tools:       spec.Tools,
		})
		return withStore(func(store *pattern.Store) error {
			if err := store.Save(p); err != nil {
				return err
			}
			fmt.Printf("Added pattern %s (%s)\n", p.ID, p.Name)
			return nil
		})
	},
}

var patternsRecordCmd = &cobra.Command{
	Use:   "record <id>",
	Short: "Record an execution outcome for a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return withStore(func(store *pattern.Store) error {
			stored, err := store.LoadAll()
			if err != nil {
				return err
			}
			m := pattern.NewMatcher(nil)
			for _, p := range stored {
				m.AddPattern(p)
			}

			m.RecordResult(id, !patternsRecordFailed, patternsRecordDuration)
			p := m.Get(id)
			if p == nil {
				return fmt.Errorf("unknown pattern id %s", id)
			}
			if err := store.Save(p); err != nil {
				return err
			}
			fmt.Printf("Recorded outcome for %s: confidence now %.2f\n", id, p.Confidence)
			return nil
		})
	},
}

var patternsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *pattern.Store) error {
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted pattern %s\n", args[0])
			return nil
		})
	},
}

var patternsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump all patterns as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *pattern.Store) error {
			patterns, err := store.LoadAll()
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(patterns)
			if err != nil {
				return fmt.Errorf("marshal patterns: %w", err)
			}
			fmt.Print(string(out))
			return nil
		})
	},
}

func init() {
	patternsAddCmd.Flags().StringVarP(&patternsAddFile, "file", "f", "", "YAML file describing the pattern")
	patternsRecordCmd.Flags().BoolVar(&patternsRecordFailed, "failed", false, "Record the outcome as a failure")
	patternsRecordCmd.Flags().Int64Var(&patternsRecordDuration, "duration", 0, "Execution duration in milliseconds")
	patternsTopCmd.Flags().IntVarP(&patternsTopLimit, "limit", "n", 10, "Maximum patterns to show")

	patternsCmd.AddCommand(patternsListCmd)
	patternsCmd.AddCommand(patternsTopCmd)
	patternsCmd.AddCommand(patternsAddCmd)
	patternsCmd.AddCommand(patternsRecordCmd)
	patternsCmd.AddCommand(patternsDeleteCmd)
	patternsCmd.AddCommand(patternsExportCmd)
}

// withStore opens the configured pattern store, runs fn, and closes it.
func withStore(fn func(*pattern.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	dbPath := cfg.Patterns.DBPath
	if dbPath == "" {
		dbPath = pattern.DefaultDBPath()
	}

	store, err := pattern.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open pattern store: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrate pattern store: %w", err)
	}
	return fn(store)
}

func printPattern(p *models.Pattern) {
	bold := color.New(color.Bold)
	bold.Printf("%s  %s\n", p.ID, p.Name)
	fmt.Printf("  goal: %s\n", p.Goal)
	fmt.Printf("  runs: %d ok / %d failed  confidence: %.2f  avg: %dms\n",
		p.SuccessCount, p.FailureCount, p.Confidence, p.AvgDurationMS)
}
