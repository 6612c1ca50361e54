// Package risk maps numeric risk scores to coarse risk levels.
package risk

import "github.com/planckhq/planck/pkg/models"

// Classifier maps a numeric risk score to a RiskLevel.
// The decomposer treats this as an injected collaborator so callers can
// substitute their own classification policy.
type Classifier interface {
	// Classify returns the risk level for the given score.
	Classify(score float64) models.RiskLevel
}

// ThresholdClassifier classifies scores against fixed cutoffs.
type ThresholdClassifier struct {
	// Low is the minimum score classified as low (below it is minimal).
	Low float64
	// Medium is the minimum score classified as medium.
	Medium float64
	// High is the minimum score classified as high.
	High float64
}

// NewThresholdClassifier returns a classifier with the default cutoffs.
func NewThresholdClassifier() *ThresholdClassifier {
	return &ThresholdClassifier{
		Low:    0.2,
		Medium: 0.5,
		High:   0.8,
	}
}

// Classify returns the risk level for the given score.
func (c *ThresholdClassifier) Classify(score float64) models.RiskLevel {
	switch {
	case score >= c.High:
		return models.RiskHigh
	case score >= c.Medium:
		return models.RiskMedium
	case score >= c.Low:
		return models.RiskLow
	default:
		return models.RiskMinimal
	}
}

// Verify ThresholdClassifier implements Classifier at compile time.
var _ Classifier = (*ThresholdClassifier)(nil)
