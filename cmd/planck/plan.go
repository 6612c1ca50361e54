package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/planckhq/planck/internal/config"
	"github.com/planckhq/planck/internal/decompose"
	"github.com/planckhq/planck/internal/pattern"
	"github.com/planckhq/planck/internal/strategy"
	"github.com/planckhq/planck/pkg/models"
)

var (
	planOutput      string
	planUrgent      bool
	planPreference  string
	planProjectType string
	planTechStack   []string
)

var planCmd = &cobra.Command{
	Use:   "plan <task description>",
	Short: "Decompose a task and select an execution strategy",
	Long: `Plan analyzes a task description, splits it into an ordered chain of
subtasks with suggested roles and risk levels, checks learned patterns for a
matching recipe, and selects the best execution strategy.

Examples:
  planck plan "add an api endpoint and write tests for it"
  planck plan -o yaml --urgent "deploy the release to production"
  planck plan --prefer iterative "refactor the billing module"`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "Output format: text or yaml")
	planCmd.Flags().BoolVar(&planUrgent, "urgent", false, "Treat the task as time-critical")
	planCmd.Flags().StringVar(&planPreference, "prefer", "", "Preferred strategy (gets a scoring bonus)")
	planCmd.Flags().StringVar(&planProjectType, "project-type", "", "Project type hint for role assignment")
	planCmd.Flags().StringSliceVar(&planTechStack, "tech-stack", nil, "Tech stack hints for role assignment")
}

// planReport is the yaml-serializable result of one plan invocation.
type planReport struct {
	Decomposition *models.TaskDecomposition `yaml:"decomposition"`
	Strategy      *models.StrategySelection `yaml:"strategy"`
	Pattern       *matchedPattern           `yaml:"pattern,omitempty"`
}

type matchedPattern struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Confidence float64 `yaml:"confidence"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	task := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if planOutput == "" {
		planOutput = cfg.Output.Format
	}

	var pctx *models.ProjectContext
	if planProjectType != "" || len(planTechStack) > 0 {
		pctx = &models.ProjectContext{ProjectType: planProjectType, TechStack: planTechStack}
	}

	dec := decompose.NewDecomposer(nil).Decompose(task, pctx)

	match := lookupPattern(cfg, task)

	timeConstraint := ""
	if planUrgent {
		timeConstraint = strategy.TimeConstraintUrgent
	}
	sel := strategy.Select(strategy.Params{
		Complexity:     dec.Complexity,
		Risk:           overallRisk(dec),
		HasPattern:     match != nil,
		TimeConstraint: timeConstraint,
		UserPreference: models.Strategy(planPreference),
	})

	report := &planReport{Decomposition: dec, Strategy: sel}
	if match != nil {
		report.Pattern = &matchedPattern{
			ID:         match.Pattern.ID,
			Name:       match.Pattern.Name,
			Confidence: match.Confidence,
		}
	}

	if planOutput == "yaml" {
		out, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		fmt.Print(string(out))
		return nil
	}

	printPlanText(report)
	return nil
}

// lookupPattern matches the task against the persisted pattern store.
// Store problems degrade to "no pattern" rather than failing the plan.
func lookupPattern(cfg *config.Config, task string) *pattern.Match {
	dbPath := cfg.Patterns.DBPath
	if dbPath == "" {
		dbPath = pattern.DefaultDBPath()
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil
	}

	store, err := pattern.NewStore(dbPath)
	if err != nil {
		return nil
	}
	defer store.Close()

	stored, err := store.LoadAll()
	if err != nil {
		return nil
	}

	m := pattern.NewMatcher(nil)
	for _, p := range stored {
		m.AddPattern(p)
	}
	match, ok := m.FindMatch(task)
	if !ok {
		return nil
	}
	return match
}

// overallRisk is the highest risk level across the decomposed subtasks.
func overallRisk(dec *models.TaskDecomposition) models.RiskLevel {
	rank := map[models.RiskLevel]int{
		models.RiskMinimal: 0,
		models.RiskLow:     1,
		models.RiskMedium:  2,
		models.RiskHigh:    3,
	}
	highest := models.RiskMinimal
	for _, st := range dec.Subtasks {
		if rank[st.Risk] > rank[highest] {
			highest = st.Risk
		}
	}
	return highest
}

func printPlanText(report *planReport) {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	bold.Printf("Strategy: %s", report.Strategy.Strategy)
	fmt.Printf(" (%.0f%% confidence)\n", report.Strategy.Confidence*100)
	dim.Println(report.Strategy.Reasoning)

	if report.Pattern != nil {
		color.Green("Pattern: %s (%.0f%% match)", report.Pattern.Name, report.Pattern.Confidence*100)
	}

	fmt.Printf("\nComplexity: %.2f  Parallelizable: %v\n", report.Decomposition.Complexity, report.Decomposition.Parallelizable)
	bold.Println("\nSubtasks:")
	for _, st := range report.Decomposition.Subtasks {
		riskColor := color.New(color.FgGreen)
		switch st.Risk {
		case models.RiskMedium:
			riskColor = color.New(color.FgYellow)
		case models.RiskHigh:
			riskColor = color.New(color.FgRed)
		}

		deps := ""
		if len(st.DependsOn) > 0 {
			deps = " <- " + strings.Join(st.DependsOn, ", ")
		}
		fmt.Printf("  %s [%s] %s%s ", st.ID, st.Role, st.Description, deps)
		riskColor.Printf("(%s risk)\n", st.Risk)
	}
}
