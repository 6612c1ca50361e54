// Package strategy scores and selects execution strategies for a task.
package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/planckhq/planck/pkg/models"
)

// TimeConstraintUrgent is the time-pressure value that shifts scoring
// toward fast strategies.
const TimeConstraintUrgent = "urgent"

// candidateOrder is the fixed strategy enumeration order. Ties are broken
// by the first strategy seen in this order.
var candidateOrder = []models.Strategy{
	models.StrategyDirect,
	models.StrategyDecompose,
	models.StrategyIterative,
	models.StrategyParallel,
	models.StrategyConservative,
	models.StrategyAggressive,
}

// baseScores are the starting scores before adjustments.
var baseScores = map[models.Strategy]float64{
	models.StrategyDirect:       0.7,
	models.StrategyDecompose:    0.6,
	models.StrategyIterative:    0.65,
	models.StrategyParallel:     0.5,
	models.StrategyConservative: 0.6,
	models.StrategyAggressive:   0.4,
}

// Params are the contextual signals driving strategy selection.
type Params struct {
	// Complexity is the task complexity estimate in [0,1].
	Complexity float64
	// Risk is the task's classified risk level.
	Risk models.RiskLevel
	// HasPattern is true when a stored pattern matched the task.
	HasPattern bool
	// TimeConstraint is the time pressure ("urgent" or empty).
	TimeConstraint string
	// UserPreference optionally names a preferred strategy, which
	// receives a scoring bonus but is not guaranteed to win.
	UserPreference models.Strategy
}

// Select scores every candidate strategy and returns the best one with
// reasoning and the ranked remaining candidates.
func Select(params Params) *models.StrategySelection {
	urgent := params.TimeConstraint == TimeConstraintUrgent

	scored := make([]models.ScoredStrategy, 0, len(candidateOrder))
	for _, s := range candidateOrder {
		score := baseScores[s]

		switch s {
		case models.StrategyDirect:
			if params.Complexity > 0.7 {
				score -= 0.3
			}
			if params.HasPattern {
				score += 0.2
			}
			if urgent {
				score += 0.1
			}
		case models.StrategyDecompose:
			if params.Complexity > 0.5 {
				score += 0.2
			}
		case models.StrategyIterative:
			if urgent {
				score -= 0.1
			}
		case models.StrategyConservative:
			if params.Risk == models.RiskHigh {
				score += 0.2
			}
			if urgent {
				score -= 0.1
			}
		case models.StrategyAggressive:
			if params.Risk != models.RiskMinimal {
				score -= 0.2
			}
			if urgent {
				score += 0.1
			}
		}

		if s == params.UserPreference {
			score += 0.15
		}

		scored = append(scored, models.ScoredStrategy{Strategy: s, Confidence: clamp(score)})
	}

	// Winner: highest score, first seen in enumeration order on ties.
	winner := scored[0]
	for _, c := range scored[1:] {
		if c.Confidence > winner.Confidence {
			winner = c
		}
	}

	alternatives := make([]models.ScoredStrategy, 0, len(scored)-1)
	for _, c := range scored {
		if c.Strategy != winner.Strategy {
			alternatives = append(alternatives, c)
		}
	}
	sort.SliceStable(alternatives, func(i, j int) bool {
		return alternatives[i].Confidence > alternatives[j].Confidence
	})

	return &models.StrategySelection{
		Strategy:     winner.Strategy,
		Confidence:   winner.Confidence,
		Reasoning:    reasoning(winner, params),
		Alternatives: alternatives,
	}
}

// reasoning assembles the human-readable explanation for a selection.
func reasoning(winner models.ScoredStrategy, params Params) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Selected %s strategy with %.0f%% confidence.", winner.Strategy, winner.Confidence*100)
	if params.Complexity > 0.7 {
		sb.WriteString(" Task complexity is high.")
	}
	if params.Risk != models.RiskMinimal && params.Risk != models.RiskLow {
		fmt.Fprintf(&sb, " Risk level is %s.", params.Risk)
	}
	if params.HasPattern {
		sb.WriteString(" Matching pattern found.")
	}
	return sb.String()
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
