// Package events provides signal emission for the planning core.
package events

import (
	"time"

	"github.com/planckhq/planck/pkg/models"
)

// Type represents the kind of emitted event.
type Type string

const (
	// EventPatternMatched indicates a stored pattern matched a task.
	EventPatternMatched Type = "pattern_matched"
	// EventPatternLearned indicates a new pattern was created.
	EventPatternLearned Type = "pattern_learned"
	// EventBatchDegraded indicates the executor fell back to a single
	// final layer because of a circular or missing dependency.
	EventBatchDegraded Type = "batch_degraded"
	// EventBatchLayerDone indicates one execution layer finished.
	EventBatchLayerDone Type = "batch_layer_done"
)

// Event is a signal emitted by the planning core.
// Consumers are optional; an event with no subscriber is dropped without
// affecting the emitting component.
type Event struct {
	// Type is the kind of event.
	Type Type
	// PatternID is the ID of the related pattern, if applicable.
	PatternID string
	// Pattern is the matched pattern, for pattern_matched events.
	Pattern *models.Pattern
	// Confidence is the match confidence, for pattern_matched events.
	Confidence float64
	// Layer is the zero-based layer index, for batch events.
	Layer int
	// Remaining is the number of unresolved calls, for batch_degraded events.
	Remaining int
	// Message provides additional context about the event.
	Message string
	// Timestamp is when the event occurred.
	Timestamp time.Time
}
