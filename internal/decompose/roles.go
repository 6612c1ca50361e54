package decompose

import (
	"strings"

	"github.com/planckhq/planck/pkg/models"
)

// defaultRole is the generic fallback when no vocabulary or context matches.
const defaultRole = "executor"

// roleVocab pairs a specialist role with the keywords that suggest it.
type roleVocab struct {
	role     string
	keywords []string
}

// roleVocabs are checked in this fixed priority order; the first vocabulary
// with a keyword hit wins.
var roleVocabs = []roleVocab{
	{"architect", []string{"architect", "design"}},
	{"frontend", []string{"frontend", "ui"}},
	{"backend", []string{"backend", "api", "database"}},
	{"devops", []string{"devops", "deploy", "infrastructure"}},
	{"tester", []string{"test"}},
	{"security", []string{"security"}},
	{"docs", []string{"docs", "documentation"}},
}

// suggestRole picks a specialist role for one segment by keyword matching,
// falling back to a context-derived hint, then to the generic executor role.
func suggestRole(segment string, pctx *models.ProjectContext) string {
	lower := strings.ToLower(segment)
	for _, vocab := range roleVocabs {
		for _, kw := range vocab.keywords {
			if strings.Contains(lower, kw) {
				return vocab.role
			}
		}
	}
	if role := contextRole(pctx); role != "" {
		return role
	}
	return defaultRole
}

// contextRole derives a fallback role from optional project hints.
func contextRole(pctx *models.ProjectContext) string {
	if pctx == nil {
		return ""
	}
	hint := strings.ToLower(pctx.ProjectType + " " + strings.Join(pctx.TechStack, " "))
	switch {
	case strings.Contains(hint, "frontend") || strings.Contains(hint, "ui"):
		return "frontend"
	case strings.Contains(hint, "backend") || strings.Contains(hint, "api"):
		return "backend"
	default:
		return ""
	}
}
