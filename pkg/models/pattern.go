package models

import "time"

// PatternTask is one step of a stored pattern's recipe.
type PatternTask struct {
	// Description is what this step does.
	Description string `json:"description"`
	// Role is the specialist role that performed this step.
	Role string `json:"role,omitempty"`
}

// Pattern is a learned recipe for solving a class of task.
// Confidence is recomputed as successRate*0.8 + 0.2 after every recorded
// outcome, so it stays within [0.2, 1.0].
type Pattern struct {
	// ID is the unique identifier for this pattern.
	ID string `json:"id"`
	// Name is a short human-readable label.
	Name string `json:"name"`
	// Description explains what the pattern accomplishes.
	Description string `json:"description,omitempty"`
	// Goal is the original task text this pattern was learned from.
	Goal string `json:"goal"`
	// Tasks is the ordered recipe of steps.
	Tasks []PatternTask `json:"tasks,omitempty"`
	// Tools lists tool or capability names the pattern used.
	Tools []string `json:"tools,omitempty"`
	// SuccessCount is the number of successful executions recorded.
	SuccessCount int `json:"success_count"`
	// FailureCount is the number of failed executions recorded.
	FailureCount int `json:"failure_count"`
	// AvgDurationMS is the running mean execution duration in milliseconds.
	AvgDurationMS int64 `json:"avg_duration_ms"`
	// Confidence is the pattern's confidence score in [0,1].
	Confidence float64 `json:"confidence"`
	// CreatedAt is when the pattern was first stored.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the pattern last recorded an outcome.
	UpdatedAt time.Time `json:"updated_at"`
}

// SuccessRate returns successCount / total recorded runs.
// A pattern with no recorded runs has a rate of 0.
func (p *Pattern) SuccessRate() float64 {
	total := p.SuccessCount + p.FailureCount
	if total == 0 {
		return 0
	}
	return float64(p.SuccessCount) / float64(total)
}
