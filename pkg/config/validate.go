package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "prefs.backend").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateGrouping(&cfg.Grouping)...)
	errs = append(errs, validatePrefs(&cfg.Prefs)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateExecutor(&cfg.Executor)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateGrouping validates grouping source configuration.
func validateGrouping(cfg *GroupingConfig) []FieldError {
	var errs []FieldError

	switch cfg.Source {
	case "none", "file", "git":
	default:
		errs = append(errs, FieldError{
			Field:   "grouping.source",
			Message: fmt.Sprintf("invalid source %q (must be \"none\", \"file\", or \"git\")", cfg.Source),
		})
	}

	if cfg.Source == "file" && cfg.FilePath == "" {
		errs = append(errs, FieldError{
			Field:   "grouping.file_path",
			Message: "file path is required when source is \"file\"",
		})
	}

	if cfg.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "grouping.debounce_interval",
			Message: "debounce interval must be non-negative",
		})
	}

	if cfg.Source == "git" {
		if cfg.Git.Repository == "" {
			errs = append(errs, FieldError{
				Field:   "grouping.git.repository",
				Message: "repository URL is required when source is \"git\"",
			})
		}
		if cfg.Git.PollInterval < 0 {
			errs = append(errs, FieldError{
				Field:   "grouping.git.poll_interval",
				Message: "poll interval must be non-negative",
			})
		}
		if cfg.Git.Depth < 0 {
			errs = append(errs, FieldError{
				Field:   "grouping.git.depth",
				Message: "depth must be non-negative",
			})
		}
		errs = append(errs, validateGitAuth(&cfg.Git.Auth)...)
	}

	return errs
}

// validateGitAuth validates Git authentication configuration.
func validateGitAuth(cfg *GitAuthConfig) []FieldError {
	var errs []FieldError

	switch cfg.Type {
	case "none", "token", "basic":
	default:
		errs = append(errs, FieldError{
			Field:   "grouping.git.auth.type",
			Message: fmt.Sprintf("invalid auth type %q (must be \"none\", \"token\", or \"basic\")", cfg.Type),
		})
	}

	if cfg.Type == "token" && cfg.Token == "" {
		errs = append(errs, FieldError{
			Field:   "grouping.git.auth.token",
			Message: "token is required when auth type is \"token\"",
		})
	}

	if cfg.Type == "basic" && cfg.Username == "" {
		errs = append(errs, FieldError{
			Field:   "grouping.git.auth.username",
			Message: "username is required when auth type is \"basic\"",
		})
	}

	return errs
}

// validatePrefs validates preference store configuration.
func validatePrefs(cfg *PrefsConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "prefs.backend",
			Message: fmt.Sprintf("invalid backend %q (must be \"memory\" or \"sqlite\")", cfg.Backend),
		})
	}

	if cfg.Backend == "sqlite" {
		errs = append(errs, validateSQLite("prefs.sqlite", &cfg.SQLite)...)
	}

	return errs
}

// validateHistory validates history store configuration.
func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "history.backend",
			Message: fmt.Sprintf("invalid backend %q (must be \"memory\" or \"sqlite\")", cfg.Backend),
		})
	}

	if cfg.Backend == "memory" && cfg.MemoryCapacity <= 0 {
		errs = append(errs, FieldError{
			Field:   "history.memory_capacity",
			Message: "memory capacity must be positive",
		})
	}

	if cfg.Backend == "sqlite" {
		errs = append(errs, validateSQLite("history.sqlite", &cfg.SQLite)...)
	}

	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention.days",
			Message: "retention days must be non-negative",
		})
	}
	if cfg.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention.max_records",
			Message: "max records must be non-negative",
		})
	}
	if cfg.Retention.BatchSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention.batch_size",
			Message: "batch size must be positive",
		})
	}

	return errs
}

// validateSQLite validates a SQLite configuration section.
func validateSQLite(prefix string, cfg *SQLiteConfig) []FieldError {
	var errs []FieldError

	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   prefix + ".path",
			Message: "database path is required",
		})
	}
	if cfg.MaxOpenConns < 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".max_open_conns",
			Message: "max open connections must be non-negative",
		})
	}
	if cfg.MaxIdleConns < 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".max_idle_conns",
			Message: "max idle connections must be non-negative",
		})
	}
	if cfg.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".busy_timeout",
			Message: "busy timeout must be non-negative",
		})
	}

	return errs
}

// validateExecutor validates executor configuration.
func validateExecutor(cfg *ExecutorConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxConcurrent < 0 {
		errs = append(errs, FieldError{
			Field:   "executor.max_concurrent",
			Message: "max concurrent must be non-negative",
		})
	}
	if cfg.DefaultTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "executor.default_timeout",
			Message: "default timeout must be non-negative",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid level %q (must be \"debug\", \"info\", \"warn\", or \"error\")", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid format %q (must be \"json\" or \"text\")", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Namespace == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.namespace",
				Message: "namespace is required when metrics are enabled",
			})
		}
		if cfg.Metrics.Path != "" && !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "path must start with \"/\"",
			})
		}
	}

	return errs
}
