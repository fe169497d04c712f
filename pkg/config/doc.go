// Package config provides configuration management for knox-core.
//
// This package handles loading and validating configuration from YAML files
// with environment variable overrides. It provides a type-safe configuration
// system with sensible defaults for every section.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("knox.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("knox.yaml")
//
// Applications embedding knox-core without a configuration file can start
// from config.DefaultConfig() and adjust fields directly.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention KNOX_SECTION_FIELD.
// For example:
//
//   - KNOX_PREFS_BACKEND overrides prefs.backend
//   - KNOX_GROUPING_GIT_AUTH_TOKEN overrides grouping.git.auth.token
//   - KNOX_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides
// earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// All configuration is validated automatically during loading. Validation
// errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - grouping.file_path: file path is required when source is "file"
//	  - prefs.backend: invalid backend "redis" (must be "memory" or "sqlite")
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	grouping:
//	  source: "file"
//	  file_path: "./grouping.yaml"
//
//	prefs:
//	  backend: "sqlite"
//	  sqlite:
//	    path: "data/prefs.db"
//
//	history:
//	  enabled: true
//	  backend: "sqlite"
//	  sqlite:
//	    path: "data/history.db"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//
// There is no process-wide configuration singleton. Components receive the
// sections they need through their constructors, which keeps tests hermetic
// and lets one process host several independently configured catalogs.
package config
