package config

import "time"

// Default values for configuration fields.
const (
	// Grouping defaults
	DefaultGroupingSource      = "none"
	DefaultGroupingDebounce    = 500 * time.Millisecond
	DefaultGroupingGitBranch   = "main"
	DefaultGroupingGitPath     = "grouping.yaml"
	DefaultGroupingGitPoll     = 60 * time.Second
	DefaultGroupingGitDepth    = 1
	DefaultGroupingGitAuthType = "none"

	// Prefs defaults
	DefaultPrefsBackend    = "memory"
	DefaultPrefsSQLitePath = "data/prefs.db"

	// Shared SQLite defaults
	DefaultSQLiteMaxOpenConns = 10
	DefaultSQLiteMaxIdleConns = 5
	DefaultSQLiteWALMode      = true
	DefaultSQLiteBusyTimeout  = 5 * time.Second

	// History defaults
	DefaultHistoryBackend           = "memory"
	DefaultHistoryMemoryCapacity    = 1000
	DefaultHistorySQLitePath        = "data/history.db"
	DefaultHistoryRetentionDays     = 90
	DefaultHistoryRetentionSchedule = "0 3 * * *"
	DefaultHistoryRetentionBatch    = 500

	// Executor defaults
	DefaultExecutorMaxConcurrent  = 0
	DefaultExecutorDefaultTimeout = 30 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsNamespace = "knox"
	DefaultMetricsPath      = "/metrics"
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Grouping defaults
	if cfg.Grouping.Source == "" {
		cfg.Grouping.Source = DefaultGroupingSource
	}
	if cfg.Grouping.DebounceInterval == 0 {
		cfg.Grouping.DebounceInterval = DefaultGroupingDebounce
	}
	if cfg.Grouping.Git.Branch == "" {
		cfg.Grouping.Git.Branch = DefaultGroupingGitBranch
	}
	if cfg.Grouping.Git.Path == "" {
		cfg.Grouping.Git.Path = DefaultGroupingGitPath
	}
	if cfg.Grouping.Git.PollInterval == 0 {
		cfg.Grouping.Git.PollInterval = DefaultGroupingGitPoll
	}
	if cfg.Grouping.Git.Depth == 0 {
		cfg.Grouping.Git.Depth = DefaultGroupingGitDepth
	}
	if cfg.Grouping.Git.Auth.Type == "" {
		cfg.Grouping.Git.Auth.Type = DefaultGroupingGitAuthType
	}

	// Prefs defaults
	if cfg.Prefs.Backend == "" {
		cfg.Prefs.Backend = DefaultPrefsBackend
	}
	if cfg.Prefs.SQLite.Path == "" {
		cfg.Prefs.SQLite.Path = DefaultPrefsSQLitePath
	}
	applySQLiteDefaults(&cfg.Prefs.SQLite)

	// History defaults
	if cfg.History.Backend == "" {
		cfg.History.Backend = DefaultHistoryBackend
	}
	if cfg.History.MemoryCapacity == 0 {
		cfg.History.MemoryCapacity = DefaultHistoryMemoryCapacity
	}
	if cfg.History.SQLite.Path == "" {
		cfg.History.SQLite.Path = DefaultHistorySQLitePath
	}
	applySQLiteDefaults(&cfg.History.SQLite)
	if cfg.History.Retention.Days == 0 {
		cfg.History.Retention.Days = DefaultHistoryRetentionDays
	}
	if cfg.History.Retention.Schedule == "" {
		cfg.History.Retention.Schedule = DefaultHistoryRetentionSchedule
	}
	if cfg.History.Retention.BatchSize == 0 {
		cfg.History.Retention.BatchSize = DefaultHistoryRetentionBatch
	}

	// Executor defaults
	if cfg.Executor.DefaultTimeout == 0 {
		cfg.Executor.DefaultTimeout = DefaultExecutorDefaultTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}

// applySQLiteDefaults applies default values to a SQLite configuration
// section. WAL mode defaults to on; disabling it requires a custom Config
// built after ApplyDefaults.
func applySQLiteDefaults(cfg *SQLiteConfig) {
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = DefaultSQLiteMaxIdleConns
	}
	if !cfg.WALMode {
		cfg.WALMode = DefaultSQLiteWALMode
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = DefaultSQLiteBusyTimeout
	}
}
