// Package config handles configuration loading and management for planck.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for planck.
type Config struct {
	Executor ExecutorConfig `mapstructure:"executor"`
	Patterns PatternsConfig `mapstructure:"patterns"`
	Output   OutputConfig   `mapstructure:"output"`
}

// ExecutorConfig holds batch executor settings.
type ExecutorConfig struct {
	// MaxConcurrency bounds concurrent calls within an execution layer.
	MaxConcurrency int `mapstructure:"max_concurrency"`
	// CallTimeout is the per-call timeout.
	CallTimeout time.Duration `mapstructure:"call_timeout"`
	// FailFast stops starting new layers after a layer with failures.
	FailFast bool `mapstructure:"fail_fast"`
	// StrictDependencies fails cyclic calls instead of best-effort execution.
	StrictDependencies bool `mapstructure:"strict_dependencies"`
}

// PatternsConfig holds pattern persistence settings.
type PatternsConfig struct {
	// DBPath is the sqlite database path; empty means the default user path.
	DBPath string `mapstructure:"db_path"`
}

// OutputConfig holds CLI output settings.
type OutputConfig struct {
	// Format is the default output format ("text" or "yaml").
	Format string `mapstructure:"format"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (PLANCK_*)
// 2. Project config (.planck.yaml in current directory or a parent)
// 3. User config (~/.config/planck/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("PLANCK")
	v.AutomaticEnv()
	v.BindEnv("executor.max_concurrency", "PLANCK_MAX_CONCURRENCY")
	v.BindEnv("executor.call_timeout", "PLANCK_CALL_TIMEOUT")
	v.BindEnv("patterns.db_path", "PLANCK_PATTERNS_DB")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Watch reloads the config file at path whenever it changes and delivers
// the result to onChange. Parse failures keep the previous config.
func Watch(path string, onChange func(*Config)) error {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config from %s: %w", path, err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg := &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("executor.max_concurrency", 5)
	v.SetDefault("executor.call_timeout", "30s")
	v.SetDefault("executor.fail_fast", false)
	v.SetDefault("executor.strict_dependencies", false)

	v.SetDefault("patterns.db_path", "")

	v.SetDefault("output.format", "text")
}

// getUserConfigDir returns the XDG config directory for planck.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "planck")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "planck")
	}
	return filepath.Join(home, ".config", "planck")
}

// findProjectConfig searches for .planck.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		candidate := filepath.Join(dir, ".planck.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
