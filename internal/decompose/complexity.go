// Package decompose splits free-text task descriptions into ordered,
// risk-scored subtask chains.
package decompose

import (
	"math"
	"regexp"
	"strings"
)

// technicalTerms is the fixed vocabulary of terms that signal technical depth.
var technicalTerms = []string{
	"api",
	"database",
	"kubernetes",
	"webhook",
	"docker",
	"authentication",
	"encryption",
	"migration",
	"deployment",
	"microservice",
	"cache",
	"queue",
	"websocket",
	"oauth",
	"graphql",
	"concurrency",
	"schema",
	"pipeline",
	"index",
	"regex",
}

var (
	connectorRe   = regexp.MustCompile(`(?i)\b(and|or)\b`)
	conditionalRe = regexp.MustCompile(`(?i)\b(if|when|unless)\b`)
	listMarkerRe  = regexp.MustCompile(`(?m)^\s*(?:\d+[.)]|[-*•])\s+`)
	technicalRe   = regexp.MustCompile(`(?i)\b(` + strings.Join(technicalTerms, "|") + `)\b`)
)

// AnalyzeComplexity estimates task complexity as a weighted sum of six
// lexical signals, clamped to [0,1]. The sum is deliberately not normalized
// by signal count; this is a heuristic, not a statistical model.
func AnalyzeComplexity(text string) float64 {
	score := float64(len(text)) / 500.0

	score += float64(len(connectorRe.FindAllString(text, -1))) * 0.1
	score += float64(len(conditionalRe.FindAllString(text, -1))) * 0.15
	score += float64(len(listMarkerRe.FindAllString(text, -1))) * 0.05
	score += float64(len(technicalRe.FindAllString(text, -1))) * 0.1

	return math.Min(score, 1.0)
}
