package history

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the history database schema.
// Timestamps are stored as integer Unix nanoseconds so range comparisons
// work regardless of the zone the record was written in.
const Schema = `
-- Policy operation history table
CREATE TABLE IF NOT EXISTS history (
    id TEXT PRIMARY KEY,
    policy_name TEXT NOT NULL,
    operation TEXT NOT NULL,

    -- State transition (NULL when unknown or not a set)
    previous_enabled INTEGER,
    new_enabled INTEGER,

    -- Outcome
    outcome TEXT NOT NULL,
    err_code TEXT,

    -- Unix nanoseconds
    ts INTEGER NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_history_ts ON history(ts);
CREATE INDEX IF NOT EXISTS idx_history_policy_ts ON history(policy_name, ts);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
