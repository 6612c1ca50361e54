package exec

import (
	"context"
	"strings"
	"testing"
)

func TestRunnerCallFunc(t *testing.T) {
	call := NewRunner().CallFunc()

	out, err := call(context.Background(), "echo", map[string]any{"args": []any{"hello"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := out.(string); !ok || !strings.Contains(got, "hello") {
		t.Errorf("expected echoed output, got %v", out)
	}
}

func TestRunnerCallFuncCommandString(t *testing.T) {
	call := NewRunner().CallFunc()

	out, err := call(context.Background(), "shell", map[string]any{"command": `echo "hello world"`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := out.(string); !ok || !strings.Contains(got, "hello world") {
		t.Errorf("expected echoed output, got %v", out)
	}
}

func TestRunnerCallFuncShellCommand(t *testing.T) {
	call := NewRunner().CallFunc()

	// A pipe only works when the command goes through the shell.
	out, err := call(context.Background(), "shell", map[string]any{
		"command": "echo hello | tr a-z A-Z",
		"shell":   true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := out.(string); !ok || !strings.Contains(got, "HELLO") {
		t.Errorf("expected shell-interpreted output, got %v", out)
	}
}

func TestRunnerCallFuncShellCommandFailure(t *testing.T) {
	call := NewRunner().CallFunc()
	if _, err := call(context.Background(), "shell", map[string]any{
		"command": "exit 3",
		"shell":   true,
	}); err == nil {
		t.Error("expected error from failing shell command")
	}
}

func TestRunnerCallFuncBadCommandString(t *testing.T) {
	call := NewRunner().CallFunc()
	if _, err := call(context.Background(), "shell", map[string]any{"command": `echo "unterminated`}); err == nil {
		t.Error("expected error for unbalanced quoting")
	}
}

func TestRunnerCallFuncMissingName(t *testing.T) {
	call := NewRunner().CallFunc()
	if _, err := call(context.Background(), "", nil); err == nil {
		t.Error("expected error for empty command name")
	}
}

func TestRunnerCallFuncBadArgs(t *testing.T) {
	call := NewRunner().CallFunc()
	if _, err := call(context.Background(), "echo", map[string]any{"args": "not-a-list"}); err == nil {
		t.Error("expected error for non-list args payload")
	}
}

func TestRunnerCallFuncCommandFailure(t *testing.T) {
	call := NewRunner().CallFunc()
	if _, err := call(context.Background(), "false", nil); err == nil {
		t.Error("expected error from failing command")
	}
}
