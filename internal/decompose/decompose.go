package decompose

import (
	"fmt"
	"strings"

	"github.com/planckhq/planck/internal/risk"
	"github.com/planckhq/planck/pkg/models"
)

// riskWeights are the fixed keyword weights summed into a subtask's risk
// score before classification.
var riskWeights = []struct {
	keywords []string
	weight   float64
}{
	{[]string{"delete", "remove"}, 0.3},
	{[]string{"execute", "run"}, 0.2},
	{[]string{"database"}, 0.2},
	{[]string{"deploy", "production"}, 0.3},
}

// Decomposer turns one free-text task description into a linear-dependency
// subtask list plus a complexity estimate. It performs no I/O and its output
// is deterministic for a given input and vocabulary.
type Decomposer struct {
	// classifier maps numeric risk scores to risk levels.
	classifier risk.Classifier
}

// NewDecomposer creates a Decomposer using the given risk classifier.
// A nil classifier gets the default threshold classifier.
func NewDecomposer(classifier risk.Classifier) *Decomposer {
	if classifier == nil {
		classifier = risk.NewThresholdClassifier()
	}
	return &Decomposer{classifier: classifier}
}

// Decompose splits the task text into an ordered chain of subtasks.
// Each subtask depends on exactly the previous one: a strict chain, not a
// general DAG. Empty or very short input still produces exactly one subtask.
func (d *Decomposer) Decompose(text string, pctx *models.ProjectContext) *models.TaskDecomposition {
	complexity := AnalyzeComplexity(text)
	segments := segmentText(text)

	subtasks := make([]models.DecomposedTask, 0, len(segments))
	dependencies := make(map[string][]string, len(segments))
	roles := make(map[string]bool)

	for i, segment := range segments {
		id := fmt.Sprintf("subtask_%d", i+1)

		var dependsOn []string
		if i > 0 {
			dependsOn = []string{fmt.Sprintf("subtask_%d", i)}
		}

		role := suggestRole(segment, pctx)
		roles[role] = true

		subtasks = append(subtasks, models.DecomposedTask{
			ID:              id,
			Description:     segment,
			Role:            role,
			EstimatedTokens: len(segment) * 10,
			Risk:            d.classifier.Classify(riskScore(segment)),
			DependsOn:       dependsOn,
		})
		dependencies[id] = dependsOn
	}

	return &models.TaskDecomposition{
		Original:       text,
		Subtasks:       subtasks,
		Dependencies:   dependencies,
		Complexity:     complexity,
		Parallelizable: len(roles) > 1 && len(subtasks) >= 2,
	}
}

// riskScore sums the fixed weights for every risk keyword found in the segment.
func riskScore(segment string) float64 {
	lower := strings.ToLower(segment)
	var score float64
	for _, rw := range riskWeights {
		for _, kw := range rw.keywords {
			if strings.Contains(lower, kw) {
				score += rw.weight
			}
		}
	}
	return score
}
