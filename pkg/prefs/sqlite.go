package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jpicklyk/knox-core/pkg/config"
)

// prefsSchemaVersion is the current preference database schema version.
const prefsSchemaVersion = 1

const prefsSchema = `
CREATE TABLE IF NOT EXISTS preferences (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);
`

const prefsInsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

const prefsGetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

// SQLiteStore is a durable Store backed by a SQLite database. Change
// notification is in-process: watchers of this store instance see writes
// made through it, not writes from other processes sharing the file.
type SQLiteStore struct {
	db        *sql.DB
	path      string
	walMode   bool
	logger    *slog.Logger
	watchers  *watchers
	mu        sync.RWMutex
	closeOnce sync.Once

	getStmt *sql.Stmt
	setStmt *sql.Stmt
}

// NewSQLiteStore opens (creating if needed) the preference database at
// cfg.Path and verifies its schema.
func NewSQLiteStore(cfg *config.SQLiteConfig) (*SQLiteStore, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, fmt.Errorf("sqlite prefs store requires a database path")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		db:       db,
		path:     cfg.Path,
		walMode:  cfg.WALMode,
		logger:   slog.Default().With("component", "prefs.sqlite"),
		watchers: newWatchers(),
	}

	if err := s.initialize(cfg); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("preference store opened",
		"path", cfg.Path,
		"wal_mode", cfg.WALMode,
	)
	return s, nil
}

// initialize applies pragmas, creates the schema and verifies its version.
func (s *SQLiteStore) initialize(cfg *config.SQLiteConfig) error {
	if cfg.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
		if _, err := s.db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
			return fmt.Errorf("failed to set synchronous mode: %w", err)
		}
	}

	busyTimeout := cfg.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := s.db.Exec(prefsSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.db.Exec(prefsInsertSchemaVersion, prefsSchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	var version int
	err := s.db.QueryRow(prefsGetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != prefsSchemaVersion {
		return fmt.Errorf("schema version mismatch: expected %d, got %d", prefsSchemaVersion, version)
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getStmt, err = s.db.Prepare(`SELECT value FROM preferences WHERE key = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.setStmt, err = s.db.Prepare(`
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare set statement: %w", err)
	}

	return nil
}

// Get returns the value stored under key, or def when unset.
func (s *SQLiteStore) Get(ctx context.Context, key, def string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.getStmt.QueryRowContext(ctx, key).Scan(&value)
	if err == sql.ErrNoRows {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to read preference %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key and notifies watchers after the write
// commits.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.setStmt.ExecContext(ctx, key, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to write preference %q: %w", key, err)
	}
	s.watchers.notify(key, value)
	return nil
}

// Watch emits the current value for key immediately, then every change
// written through this store instance.
func (s *SQLiteStore) Watch(ctx context.Context, key, def string) (<-chan string, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := def
	var value string
	err := s.getStmt.QueryRowContext(ctx, key).Scan(&value)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, nil, fmt.Errorf("failed to read preference %q: %w", key, err)
	default:
		current = value
	}

	ch, cancel := s.watchers.subscribe(key, current)

	stop := context.AfterFunc(ctx, cancel)
	detach := func() {
		stop()
		cancel()
	}
	return ch, detach, nil
}

// Close closes watcher channels, prepared statements and the database.
// Close is idempotent.
func (s *SQLiteStore) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		s.watchers.closeAll()

		if s.getStmt != nil {
			s.getStmt.Close()
		}
		if s.setStmt != nil {
			s.setStmt.Close()
		}

		if s.walMode {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		}
		closeErr = s.db.Close()
	})

	return closeErr
}
