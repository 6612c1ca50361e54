package models

// ProjectContext carries optional hints about the surrounding project.
// It is consumed only as a fallback signal for specialist-role assignment.
type ProjectContext struct {
	// ProjectType describes the kind of project (e.g., "frontend", "api").
	ProjectType string `json:"project_type,omitempty"`
	// TechStack lists technologies in use (e.g., "react", "postgres").
	TechStack []string `json:"tech_stack,omitempty"`
}

// DecomposedTask is one atomic unit produced by task decomposition.
type DecomposedTask struct {
	// ID is the subtask identifier, "subtask_<n>" with n starting at 1.
	ID string `json:"id"`
	// Description is the text fragment this subtask covers.
	Description string `json:"description"`
	// Role is the suggested specialist role for this subtask.
	Role string `json:"role"`
	// EstimatedTokens is a rough token cost proportional to text length.
	EstimatedTokens int `json:"estimated_tokens"`
	// Risk is the classified risk level for this subtask.
	Risk RiskLevel `json:"risk"`
	// DependsOn lists subtask IDs that must complete before this one.
	DependsOn []string `json:"depends_on,omitempty"`
}

// TaskDecomposition is the result of decomposing one task description.
type TaskDecomposition struct {
	// Original is the task text that was decomposed.
	Original string `json:"original"`
	// Subtasks is the ordered list of decomposed subtasks.
	Subtasks []DecomposedTask `json:"subtasks"`
	// Dependencies maps subtask ID to its prerequisite subtask IDs.
	Dependencies map[string][]string `json:"dependencies"`
	// Complexity is the estimated task complexity in [0,1].
	Complexity float64 `json:"complexity"`
	// Parallelizable is true when the subtasks span more than one role.
	Parallelizable bool `json:"parallelizable"`
}
