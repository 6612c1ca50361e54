package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
executor:
  max_concurrency: 8
  call_timeout: 5s
  fail_fast: true
patterns:
  db_path: /tmp/test-patterns.db
output:
  format: yaml
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Executor.MaxConcurrency != 8 {
		t.Errorf("expected max_concurrency 8, got %d", cfg.Executor.MaxConcurrency)
	}
	if cfg.Executor.CallTimeout != 5*time.Second {
		t.Errorf("expected call_timeout 5s, got %v", cfg.Executor.CallTimeout)
	}
	if !cfg.Executor.FailFast {
		t.Error("expected fail_fast true")
	}
	if cfg.Executor.StrictDependencies {
		t.Error("expected strict_dependencies to keep its default false")
	}
	if cfg.Patterns.DBPath != "/tmp/test-patterns.db" {
		t.Errorf("unexpected db_path %q", cfg.Patterns.DBPath)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("expected format yaml, got %q", cfg.Output.Format)
	}
}

func TestLoadFromPathDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("output:\n  format: text\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Executor.MaxConcurrency != 5 {
		t.Errorf("expected default max_concurrency 5, got %d", cfg.Executor.MaxConcurrency)
	}
	if cfg.Executor.CallTimeout != 30*time.Second {
		t.Errorf("expected default call_timeout 30s, got %v", cfg.Executor.CallTimeout)
	}
	if cfg.Executor.FailFast || cfg.Executor.StrictDependencies {
		t.Error("expected fail_fast and strict_dependencies to default to false")
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
