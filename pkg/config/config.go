package config

import "time"

// Config is the root configuration structure for knox-core. It contains
// configuration sections for grouping sources, the preference store, the
// policy-change history, the use-case executor, and telemetry.
type Config struct {
	// Grouping contains configuration for the grouping config source
	// (in-process, YAML file with hot reload, or Git repository).
	Grouping GroupingConfig `yaml:"grouping"`

	// Prefs contains configuration for the durable preference store that
	// backs toggle policy handlers.
	Prefs PrefsConfig `yaml:"prefs"`

	// History contains configuration for the policy-change history store
	// and its retention policy.
	History HistoryConfig `yaml:"history"`

	// Executor contains configuration for the use-case executor.
	Executor ExecutorConfig `yaml:"executor"`

	// Telemetry contains configuration for observability including logging
	// and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GroupingConfig contains configuration for loading grouping definitions.
type GroupingConfig struct {
	// Source specifies where grouping configuration comes from.
	// Options: "none" (capability-based grouping only), "file", "git"
	// Default: "none"
	Source string `yaml:"source"`

	// FilePath is the path to the grouping YAML file when Source is "file".
	FilePath string `yaml:"file_path"`

	// DebounceInterval is how long the file watcher waits after the last
	// change event before reloading. Editors often produce several events
	// per save.
	// Default: 500ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// Git contains Git repository configuration. Used when Source is "git".
	Git GitGroupingConfig `yaml:"git"`
}

// GitGroupingConfig configures Git-based grouping config loading.
type GitGroupingConfig struct {
	// Repository URL (HTTPS or SSH).
	// Example: "https://github.com/company/device-config.git"
	Repository string `yaml:"repository"`

	// Branch to track.
	// Default: "main"
	Branch string `yaml:"branch"`

	// Path within the repository to the grouping YAML file.
	// Default: "grouping.yaml"
	Path string `yaml:"path"`

	// CloneDir is the local directory for the working clone. Empty means a
	// temporary directory is used.
	CloneDir string `yaml:"clone_dir"`

	// PollInterval is how often the watcher pulls and checks for new
	// commits.
	// Default: 60s
	PollInterval time.Duration `yaml:"poll_interval"`

	// Depth limits clone history. 1 fetches only the latest commit.
	// Default: 1
	Depth int `yaml:"depth"`

	// Auth configures Git authentication.
	Auth GitAuthConfig `yaml:"auth"`
}

// GitAuthConfig configures Git authentication.
type GitAuthConfig struct {
	// Type: "none", "token", "basic"
	// - "token": HTTPS with a personal access token
	// - "basic": HTTPS with username and password
	// - "none": public repositories
	// Default: "none"
	Type string `yaml:"type"`

	// Token for token authentication. This should typically be loaded from
	// an environment variable.
	Token string `yaml:"token"`

	// Username for basic authentication.
	Username string `yaml:"username"`

	// Password for basic authentication. This should typically be loaded
	// from an environment variable.
	Password string `yaml:"password"`
}

// PrefsConfig contains configuration for the preference store.
type PrefsConfig struct {
	// Backend specifies the storage backend for preferences.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific configuration. Used when Backend is
	// "sqlite".
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig contains SQLite-specific configuration shared by the
// preference and history stores.
type SQLiteConfig struct {
	// Path is the file path for the SQLite database.
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// HistoryConfig contains configuration for the policy-change history.
type HistoryConfig struct {
	// Enabled controls whether policy-change history is recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend specifies the storage backend for history records.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// MemoryCapacity is the maximum number of records the memory backend
	// retains before discarding the oldest.
	// Default: 1000
	MemoryCapacity int `yaml:"memory_capacity"`

	// SQLite contains SQLite-specific configuration. Used when Backend is
	// "sqlite".
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention contains retention policy configuration.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig contains history retention policy configuration.
type RetentionConfig struct {
	// Days is the number of days to retain history records. Records older
	// than this are eligible for deletion. 0 means keep records forever.
	// Default: 90
	Days int `yaml:"days"`

	// MaxRecords is the maximum number of records to keep. 0 means
	// unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// Schedule is a cron expression for scheduling pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	Schedule string `yaml:"schedule"`

	// BatchSize is the maximum number of records deleted per prune pass.
	// Default: 500
	BatchSize int `yaml:"batch_size"`
}

// ExecutorConfig contains configuration for the use-case executor.
type ExecutorConfig struct {
	// MaxConcurrent is the maximum number of policy operations allowed to
	// run at once. 0 means unlimited.
	// Default: 0
	MaxConcurrent int `yaml:"max_concurrent"`

	// DefaultTimeout bounds each operation whose caller context carries
	// no deadline of its own. 0 disables the bound.
	// Default: 30s
	DefaultTimeout time.Duration `yaml:"default_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "knox"
	Namespace string `yaml:"namespace"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
