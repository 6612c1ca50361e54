// Package exec bridges external command execution into batch tool calls.
package exec

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/kballard/go-shellquote"

	"github.com/planckhq/planck/internal/batch"
)

// Runner executes tool calls as external commands. The call name is the
// program to run; the args payload supplies "args" (a string list) and an
// optional "dir" working directory. Alternatively the payload may carry a
// single "command" string, which is shell-split into program and arguments,
// or run through "sh -c" verbatim when "shell" is true.
type Runner struct{}

// NewRunner creates a command-executing Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes a command and returns combined stdout/stderr output.
func (r *Runner) Run(ctx context.Context, workDir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if workDir != "" {
		cmd.Dir = workDir
	}
	return cmd.CombinedOutput()
}

// RunShell executes a shell command through "sh -c".
func (r *Runner) RunShell(ctx context.Context, workDir string, command string) ([]byte, error) {
	return r.Run(ctx, workDir, "sh", "-c", command)
}

// CallFunc adapts the Runner into a batch unit-of-work function.
// Each call runs as one command; its combined output is the result payload.
func (r *Runner) CallFunc() batch.CallFunc {
	return func(ctx context.Context, name string, args map[string]any) (any, error) {
		workDir, _ := args["dir"].(string)

		if command, ok := args["command"].(string); ok && command != "" {
			if wantShell, _ := args["shell"].(bool); wantShell {
				out, err := r.RunShell(ctx, workDir, command)
				if err != nil {
					return nil, fmt.Errorf("shell command: %w: %s", err, out)
				}
				return string(out), nil
			}

			parts, err := shellquote.Split(command)
			if err != nil {
				return nil, fmt.Errorf("invalid command %q: %w", command, err)
			}
			if len(parts) == 0 {
				return nil, fmt.Errorf("empty command")
			}
			out, err := r.Run(ctx, workDir, parts[0], parts[1:]...)
			if err != nil {
				return nil, fmt.Errorf("%s: %w: %s", parts[0], err, out)
			}
			return string(out), nil
		}

		if name == "" {
			return nil, fmt.Errorf("call has no command name")
		}
		cmdArgs, err := stringList(args["args"])
		if err != nil {
			return nil, fmt.Errorf("invalid args payload: %w", err)
		}
		out, err := r.Run(ctx, workDir, name, cmdArgs...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %s", name, err, out)
		}
		return string(out), nil
	}
}

// stringList coerces a YAML/JSON decoded list into []string.
func stringList(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("non-string argument %v", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
}
