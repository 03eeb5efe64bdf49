package store

import (
	"context"
	"database/sql"
	"fmt"
)

// currentSchemaVersion is stored in SQLite's user_version pragma.
// Increment this whenever the schema changes (tables, columns, indices).
const currentSchemaVersion = 1

// sqliteBusyTimeout is the time SQLite waits when the database is locked.
// After this, operations return SQLITE_BUSY.
const sqliteBusyTimeout = 10000 // milliseconds

// openSqlite opens the database and applies the configured pragmas.
func openSqlite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	err = applyPragmas(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return db, nil
}

// applyPragmas configures the SQLite connection using a single batch statement.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		PRAGMA busy_timeout = %d;
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = FULL;
		PRAGMA foreign_keys = ON;
		PRAGMA temp_store = MEMORY;
	`, sqliteBusyTimeout))
	if err != nil {
		return fmt.Errorf("apply pragmas: %w", err)
	}

	return nil
}

// storedSchemaVersion reads the current SQLite PRAGMA user_version.
func storedSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	row := db.QueryRowContext(ctx, "PRAGMA user_version")

	var version int

	err := row.Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}

	return version, nil
}

// ensureSchema creates the schema on a fresh database and rejects version
// mismatches on an existing one.
func ensureSchema(ctx context.Context, db *sql.DB) error {
	version, err := storedSchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	if version == currentSchemaVersion {
		return nil
	}

	if version != 0 {
		return fmt.Errorf("%w: have %d, want %d", ErrSchemaVersion, version, currentSchemaVersion)
	}

	err = createSchema(ctx, db)
	if err != nil {
		return err
	}

	// user_version cannot be bound as a parameter.
	_, err = db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion))
	if err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// createSchema creates all tables and indices.
func createSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			key TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		) WITHOUT ROWID`,
		`CREATE TABLE IF NOT EXISTS teams (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at INTEGER NOT NULL
		) WITHOUT ROWID`,
		`CREATE TABLE IF NOT EXISTS members (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		) WITHOUT ROWID`,
		`CREATE TABLE IF NOT EXISTS team_members (
			team_id TEXT NOT NULL REFERENCES teams(id),
			member_id TEXT NOT NULL REFERENCES members(id),
			PRIMARY KEY (team_id, member_id)
		) WITHOUT ROWID`,
		`CREATE TABLE IF NOT EXISTS team_projects (
			team_id TEXT NOT NULL REFERENCES teams(id),
			project_id TEXT NOT NULL REFERENCES projects(id),
			PRIMARY KEY (team_id, project_id)
		) WITHOUT ROWID`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id),
			title TEXT NOT NULL,
			status TEXT NOT NULL,
			priority INTEGER NOT NULL,
			assignee TEXT NOT NULL DEFAULT '',
			starts_on TEXT NOT NULL DEFAULT '',
			due_on TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		) WITHOUT ROWID`,
		`CREATE TABLE IF NOT EXISTS task_deps (
			task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			depends_on TEXT NOT NULL REFERENCES tasks(id),
			PRIMARY KEY (task_id, depends_on)
		) WITHOUT ROWID`,
		`CREATE TABLE IF NOT EXISTS tickets (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id),
			title TEXT NOT NULL,
			status TEXT NOT NULL,
			priority INTEGER NOT NULL,
			requester TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		) WITHOUT ROWID`,
		"CREATE INDEX IF NOT EXISTS idx_tasks_project_status ON tasks(project_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_tasks_status_priority ON tasks(status, priority)",
		"CREATE INDEX IF NOT EXISTS idx_task_deps_depends ON task_deps(depends_on)",
		"CREATE INDEX IF NOT EXISTS idx_tickets_project_status ON tickets(project_id, status)",
	}

	for i, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}

	return nil
}
