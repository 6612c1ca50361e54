package decompose

import (
	"fmt"
	"strings"
	"testing"

	"github.com/planckhq/planck/pkg/models"
)

func TestDecomposeEmptyInput(t *testing.T) {
	d := NewDecomposer(nil)
	dec := d.Decompose("", nil)

	if len(dec.Subtasks) != 1 {
		t.Fatalf("expected exactly 1 subtask for empty input, got %d", len(dec.Subtasks))
	}
	if dec.Subtasks[0].ID != "subtask_1" {
		t.Errorf("expected id subtask_1, got %s", dec.Subtasks[0].ID)
	}
	if len(dec.Subtasks[0].DependsOn) != 0 {
		t.Errorf("first subtask must have no dependencies, got %v", dec.Subtasks[0].DependsOn)
	}
	if dec.Parallelizable {
		t.Error("single subtask must not be parallelizable")
	}
}

func TestDecomposeListItems(t *testing.T) {
	text := "please do the following:\n1. design the schema layout\n2. build the api endpoints\n3. write tests for everything"
	d := NewDecomposer(nil)
	dec := d.Decompose(text, nil)

	if len(dec.Subtasks) != 3 {
		t.Fatalf("expected 3 subtasks from list items, got %d", len(dec.Subtasks))
	}

	// Strict linear chain: subtask n depends exactly on subtask n-1.
	for i, st := range dec.Subtasks {
		want := fmt.Sprintf("subtask_%d", i+1)
		if st.ID != want {
			t.Errorf("subtask %d: expected id %s, got %s", i, want, st.ID)
		}
		if i == 0 {
			if len(st.DependsOn) != 0 {
				t.Errorf("subtask_1 must have no dependencies, got %v", st.DependsOn)
			}
			continue
		}
		prev := fmt.Sprintf("subtask_%d", i)
		if len(st.DependsOn) != 1 || st.DependsOn[0] != prev {
			t.Errorf("%s: expected dependsOn [%s], got %v", st.ID, prev, st.DependsOn)
		}
	}

	// Dependency map mirrors the chain.
	if deps := dec.Dependencies["subtask_3"]; len(deps) != 1 || deps[0] != "subtask_2" {
		t.Errorf("dependency map: expected subtask_3 -> [subtask_2], got %v", deps)
	}
}

func TestDecomposeConnectives(t *testing.T) {
	text := "set up the project scaffolding properly. then build the backend api handlers. finally write the documentation pages"
	d := NewDecomposer(nil)
	dec := d.Decompose(text, nil)

	if len(dec.Subtasks) != 3 {
		t.Fatalf("expected 3 subtasks from connective split, got %d", len(dec.Subtasks))
	}
}

func TestDecomposeSegmentCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("do all of these:\n")
	for i := 1; i <= 15; i++ {
		fmt.Fprintf(&sb, "%d. item number %d with some detail\n", i, i)
	}

	d := NewDecomposer(nil)
	dec := d.Decompose(sb.String(), nil)
	if len(dec.Subtasks) != 10 {
		t.Errorf("expected 10 subtasks (capped), got %d", len(dec.Subtasks))
	}
	last := dec.Subtasks[len(dec.Subtasks)-1]
	if len(last.DependsOn) != 1 || last.DependsOn[0] != "subtask_9" {
		t.Errorf("last subtask should depend on subtask_9, got %v", last.DependsOn)
	}
}

func TestDecomposeRoles(t *testing.T) {
	tests := []struct {
		segment string
		role    string
	}{
		{"design the overall architecture", "architect"},
		{"polish the ui styling", "frontend"},
		{"add the api endpoint", "backend"},
		{"deploy to the staging cluster", "devops"},
		{"write test coverage for the parser", "tester"},
		{"review the security posture", "security"},
		{"update the docs", "docs"},
		{"make it happen", "executor"},
	}
	d := NewDecomposer(nil)
	for _, tt := range tests {
		dec := d.Decompose(tt.segment, nil)
		if got := dec.Subtasks[0].Role; got != tt.role {
			t.Errorf("segment %q: expected role %s, got %s", tt.segment, tt.role, got)
		}
	}
}

func TestDecomposeRolePriorityOrder(t *testing.T) {
	// "design" (architect) outranks "api" (backend) in the fixed priority scan.
	d := NewDecomposer(nil)
	dec := d.Decompose("design the api surface", nil)
	if got := dec.Subtasks[0].Role; got != "architect" {
		t.Errorf("expected architect to win priority scan, got %s", got)
	}
}

func TestDecomposeContextFallback(t *testing.T) {
	d := NewDecomposer(nil)

	pctx := &models.ProjectContext{ProjectType: "frontend", TechStack: []string{"react"}}
	dec := d.Decompose("make it faster", pctx)
	if got := dec.Subtasks[0].Role; got != "frontend" {
		t.Errorf("expected frontend from context hint, got %s", got)
	}

	pctx = &models.ProjectContext{TechStack: []string{"api", "postgres"}}
	dec = d.Decompose("make it faster", pctx)
	if got := dec.Subtasks[0].Role; got != "backend" {
		t.Errorf("expected backend from context hint, got %s", got)
	}
}

func TestDecomposeParallelizable(t *testing.T) {
	// Two subtasks, two distinct roles.
	text := "work through:\n- build the api endpoint\n- update the docs"
	d := NewDecomposer(nil)
	dec := d.Decompose(text, nil)
	if !dec.Parallelizable {
		t.Error("expected parallelizable with 2 subtasks across 2 roles")
	}

	// Two subtasks, one role.
	text = "work through:\n- update the docs intro\n- update the docs appendix"
	dec = d.Decompose(text, nil)
	if dec.Parallelizable {
		t.Error("expected not parallelizable with a single role")
	}
}

func TestDecomposeRiskLevels(t *testing.T) {
	d := NewDecomposer(nil)

	dec := d.Decompose("tidy the changelog wording", nil)
	if got := dec.Subtasks[0].Risk; got != models.RiskMinimal {
		t.Errorf("expected minimal risk, got %s", got)
	}

	dec = d.Decompose("delete the production database", nil)
	if got := dec.Subtasks[0].Risk; got != models.RiskHigh {
		t.Errorf("expected high risk, got %s", got)
	}
}

func TestDecomposeTokenEstimate(t *testing.T) {
	d := NewDecomposer(nil)
	text := "make it happen"
	dec := d.Decompose(text, nil)
	if got := dec.Subtasks[0].EstimatedTokens; got != len(text)*10 {
		t.Errorf("expected %d estimated tokens, got %d", len(text)*10, got)
	}
}
