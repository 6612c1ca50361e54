package models

import "time"

// ToolCall is one unit of work submitted to the batch executor.
type ToolCall struct {
	// ID is a caller-assigned identifier, unique within the batch.
	ID string `json:"id" yaml:"id"`
	// Name identifies the tool or operation to invoke.
	Name string `json:"name" yaml:"name"`
	// Args is the opaque argument payload for the call.
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
	// DependsOn optionally names another call's ID that must complete first.
	DependsOn string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// ToolResult is the outcome of one executed call.
type ToolResult struct {
	// ID is the call's identifier. Results arrive in chunk-completion
	// order, so callers must correlate by ID, not position.
	ID string `json:"id"`
	// Name is the call's tool name.
	Name string `json:"name"`
	// Success is true when the call completed without error or timeout.
	Success bool `json:"success"`
	// Result is the call's payload when Success is true.
	Result any `json:"result,omitempty"`
	// Error is the failure message when Success is false.
	Error string `json:"error,omitempty"`
	// Elapsed is how long the call took (or waited, on timeout).
	Elapsed time.Duration `json:"elapsed"`
}

// BatchResult aggregates the outcomes of one executed batch.
// Every submitted call appears exactly once in Results, so
// SuccessCount+FailureCount always equals the number of submitted calls.
type BatchResult struct {
	// Results holds one result per submitted call.
	Results []ToolResult `json:"results"`
	// Elapsed is the total wall time for the batch.
	Elapsed time.Duration `json:"elapsed"`
	// SuccessCount is the number of successful calls.
	SuccessCount int `json:"success_count"`
	// FailureCount is the number of failed calls.
	FailureCount int `json:"failure_count"`
}
