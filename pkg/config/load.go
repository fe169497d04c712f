package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention KNOX_SECTION_FIELD (e.g., KNOX_PREFS_BACKEND). Environment
// variables always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	// Re-validate after overrides
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with all default values applied.
// Useful for embedding knox-core without a configuration file.
func DefaultConfig() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format KNOX_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Grouping overrides
	if val := os.Getenv("KNOX_GROUPING_SOURCE"); val != "" {
		cfg.Grouping.Source = val
	}
	if val := os.Getenv("KNOX_GROUPING_FILE_PATH"); val != "" {
		cfg.Grouping.FilePath = val
	}
	if val := os.Getenv("KNOX_GROUPING_DEBOUNCE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Grouping.DebounceInterval = d
		}
	}
	if val := os.Getenv("KNOX_GROUPING_GIT_REPOSITORY"); val != "" {
		cfg.Grouping.Git.Repository = val
	}
	if val := os.Getenv("KNOX_GROUPING_GIT_BRANCH"); val != "" {
		cfg.Grouping.Git.Branch = val
	}
	if val := os.Getenv("KNOX_GROUPING_GIT_PATH"); val != "" {
		cfg.Grouping.Git.Path = val
	}
	if val := os.Getenv("KNOX_GROUPING_GIT_CLONE_DIR"); val != "" {
		cfg.Grouping.Git.CloneDir = val
	}
	if val := os.Getenv("KNOX_GROUPING_GIT_POLL_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Grouping.Git.PollInterval = d
		}
	}
	if val := os.Getenv("KNOX_GROUPING_GIT_AUTH_TYPE"); val != "" {
		cfg.Grouping.Git.Auth.Type = val
	}
	if val := os.Getenv("KNOX_GROUPING_GIT_AUTH_TOKEN"); val != "" {
		cfg.Grouping.Git.Auth.Token = val
	}
	if val := os.Getenv("KNOX_GROUPING_GIT_AUTH_USERNAME"); val != "" {
		cfg.Grouping.Git.Auth.Username = val
	}
	if val := os.Getenv("KNOX_GROUPING_GIT_AUTH_PASSWORD"); val != "" {
		cfg.Grouping.Git.Auth.Password = val
	}

	// Prefs overrides
	if val := os.Getenv("KNOX_PREFS_BACKEND"); val != "" {
		cfg.Prefs.Backend = val
	}
	if val := os.Getenv("KNOX_PREFS_SQLITE_PATH"); val != "" {
		cfg.Prefs.SQLite.Path = val
	}

	// History overrides
	if val := os.Getenv("KNOX_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("KNOX_HISTORY_BACKEND"); val != "" {
		cfg.History.Backend = val
	}
	if val := os.Getenv("KNOX_HISTORY_MEMORY_CAPACITY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.MemoryCapacity = i
		}
	}
	if val := os.Getenv("KNOX_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLite.Path = val
	}
	if val := os.Getenv("KNOX_HISTORY_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.Retention.Days = i
		}
	}
	if val := os.Getenv("KNOX_HISTORY_RETENTION_MAX_RECORDS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.History.Retention.MaxRecords = i
		}
	}
	if val := os.Getenv("KNOX_HISTORY_RETENTION_SCHEDULE"); val != "" {
		cfg.History.Retention.Schedule = val
	}

	// Executor overrides
	if val := os.Getenv("KNOX_EXECUTOR_MAX_CONCURRENT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Executor.MaxConcurrent = i
		}
	}
	if val := os.Getenv("KNOX_EXECUTOR_DEFAULT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Executor.DefaultTimeout = d
		}
	}

	// Telemetry overrides
	if val := os.Getenv("KNOX_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("KNOX_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("KNOX_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("KNOX_TELEMETRY_METRICS_NAMESPACE"); val != "" {
		cfg.Telemetry.Metrics.Namespace = val
	}
	if val := os.Getenv("KNOX_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}
