package models

// RiskLevel is a coarse classification of how dangerous a subtask is.
type RiskLevel string

const (
	// RiskMinimal indicates no recognized risk signals.
	RiskMinimal RiskLevel = "minimal"
	// RiskLow indicates weak risk signals (e.g., running commands).
	RiskLow RiskLevel = "low"
	// RiskMedium indicates moderate risk signals (e.g., database changes).
	RiskMedium RiskLevel = "medium"
	// RiskHigh indicates strong risk signals (e.g., deleting production data).
	RiskHigh RiskLevel = "high"
)

// Valid returns true if the risk level is a known value.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskMinimal, RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}
