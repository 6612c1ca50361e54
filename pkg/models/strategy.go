package models

// Strategy is one of the fixed execution approaches for running a task.
type Strategy string

const (
	// StrategyDirect executes the task in one shot without decomposition.
	StrategyDirect Strategy = "direct"
	// StrategyDecompose splits the task into subtasks first.
	StrategyDecompose Strategy = "decompose"
	// StrategyIterative refines the result over multiple passes.
	StrategyIterative Strategy = "iterative"
	// StrategyParallel runs independent subtasks concurrently.
	StrategyParallel Strategy = "parallel"
	// StrategyConservative favors safety checks over speed.
	StrategyConservative Strategy = "conservative"
	// StrategyAggressive favors speed over safety checks.
	StrategyAggressive Strategy = "aggressive"
)

// Valid returns true if the strategy is a known value.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyDirect, StrategyDecompose, StrategyIterative,
		StrategyParallel, StrategyConservative, StrategyAggressive:
		return true
	default:
		return false
	}
}

// ScoredStrategy pairs a strategy with its post-adjustment confidence.
type ScoredStrategy struct {
	// Strategy is the candidate execution strategy.
	Strategy Strategy `json:"strategy"`
	// Confidence is the clamped score in [0,1].
	Confidence float64 `json:"confidence"`
}

// StrategySelection is the outcome of one strategy selection call.
type StrategySelection struct {
	// Strategy is the winning strategy.
	Strategy Strategy `json:"strategy"`
	// Confidence is the winner's score in [0,1].
	Confidence float64 `json:"confidence"`
	// Reasoning is a human-readable explanation of the choice.
	Reasoning string `json:"reasoning"`
	// Alternatives lists the remaining candidates, ranked by confidence
	// descending, excluding the winner.
	Alternatives []ScoredStrategy `json:"alternatives"`
}
