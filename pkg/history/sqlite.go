package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jpicklyk/knox-core/pkg/config"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	cfg    *config.SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite history store.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStore(cfg *config.SQLiteConfig) (*SQLiteStore, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, fmt.Errorf("history sqlite store requires a database path")
	}

	logger := slog.Default().With("component", "history.sqlite")

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	// Configure connection pool
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = config.DefaultSQLiteMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = config.DefaultSQLiteMaxIdleConns
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	s := &SQLiteStore{
		db:     db,
		cfg:    cfg,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("history storage initialized",
		"path", cfg.Path,
		"wal_mode", cfg.WALMode,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.cfg.WALMode {
		_, err := s.db.Exec("PRAGMA journal_mode=WAL;")
		if err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeout := s.cfg.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = config.DefaultSQLiteBusyTimeout
	}
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeout.Milliseconds()))
	if err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	// Create schema
	_, err = s.db.Exec(Schema)
	if err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}
	s.logger.Debug("database schema created")

	// Insert schema version
	_, err = s.db.Exec(InsertSchemaVersion, SchemaVersion)
	if err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	// Verify schema version
	var version int
	err = s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)

	return nil
}

// Append persists a record to the database.
func (s *SQLiteStore) Append(ctx context.Context, r *Record) error {
	query := `
		INSERT INTO history (
			id, policy_name, operation,
			previous_enabled, new_enabled,
			outcome, err_code, ts
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	// Empty err_code is stored as NULL; nil *bool arguments already
	// bind as NULL.
	var errCode any
	if r.ErrCode != "" {
		errCode = r.ErrCode
	}

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.PolicyName, r.Operation,
		r.PreviousEnabled, r.NewEnabled,
		r.Outcome, errCode, r.Timestamp.UnixNano(),
	)
	if err != nil {
		return NewStorageError("sqlite", "append", err)
	}

	return nil
}

// List retrieves records matching the filter, newest first.
func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]*Record, error) {
	whereClause, args := s.buildWhereClause(f)

	sqlQuery := "SELECT * FROM history"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += " ORDER BY ts DESC, id DESC"
	if f.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		record, err := s.scanRow(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "list", err)
	}

	return records, nil
}

// Count returns the total number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM history").Scan(&count)
	if err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// DeleteBefore removes up to limit records older than cutoff, oldest first.
// SQLite cannot combine DELETE with LIMIT directly, so bounded deletes go
// through an id subquery.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	var (
		query string
		args  []any
	)
	if limit > 0 {
		query = `
			DELETE FROM history WHERE id IN (
				SELECT id FROM history WHERE ts < ?
				ORDER BY ts ASC, id ASC LIMIT ?
			)
		`
		args = []any{cutoff.UnixNano(), limit}
	} else {
		query = "DELETE FROM history WHERE ts < ?"
		args = []any{cutoff.UnixNano()}
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_before", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_before", err)
	}

	return count, nil
}

// DeleteOldest removes the n oldest records.
func (s *SQLiteStore) DeleteOldest(ctx context.Context, n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}

	query := `
		DELETE FROM history WHERE id IN (
			SELECT id FROM history ORDER BY ts ASC, id ASC LIMIT ?
		)
	`
	result, err := s.db.ExecContext(ctx, query, n)
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_oldest", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_oldest", err)
	}

	return count, nil
}

// Close releases resources held by the store.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}

	s.logger.Info("history storage closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause from the filter.
// Returns the WHERE clause (without "WHERE" keyword) and the query arguments.
func (s *SQLiteStore) buildWhereClause(f Filter) (string, []any) {
	var conditions []string
	var args []any

	if f.PolicyName != "" {
		conditions = append(conditions, "policy_name = ?")
		args = append(args, f.PolicyName)
	}
	if !f.Since.IsZero() {
		conditions = append(conditions, "ts >= ?")
		args = append(args, f.Since.UnixNano())
	}
	if !f.Until.IsZero() {
		conditions = append(conditions, "ts < ?")
		args = append(args, f.Until.UnixNano())
	}

	whereClause := ""
	for i, condition := range conditions {
		if i > 0 {
			whereClause += " AND "
		}
		whereClause += condition
	}

	return whereClause, args
}

// scanRow scans a database row into a Record.
func (s *SQLiteStore) scanRow(rows *sql.Rows) (*Record, error) {
	var (
		r       Record
		prev    sql.NullBool
		next    sql.NullBool
		errCode sql.NullString
		ts      int64
	)

	err := rows.Scan(
		&r.ID, &r.PolicyName, &r.Operation,
		&prev, &next,
		&r.Outcome, &errCode, &ts,
	)
	if err != nil {
		return nil, err
	}

	if prev.Valid {
		v := prev.Bool
		r.PreviousEnabled = &v
	}
	if next.Valid {
		v := next.Bool
		r.NewEnabled = &v
	}
	if errCode.Valid {
		r.ErrCode = errCode.String
	}
	r.Timestamp = time.Unix(0, ts).UTC()

	return &r, nil
}
