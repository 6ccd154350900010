package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// migration is a single forward-only schema step.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations are applied in order; never edit a released step, append a new one.
var migrations = []migration{
	{
		version: 1,
		name:    "catalog",
		sql: `
	CREATE TABLE IF NOT EXISTS course (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		level TEXT NOT NULL DEFAULT '',
		duration TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS course_module (
		id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		duration TEXT NOT NULL DEFAULT '',
		completed INTEGER NOT NULL DEFAULT 0,
		resource_type TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (course_id, id),
		FOREIGN KEY (course_id) REFERENCES course(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS module_content (
		id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		module_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		type TEXT NOT NULL,
		duration TEXT NOT NULL DEFAULT '',
		resource_url TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (course_id, module_id, id),
		FOREIGN KEY (course_id, module_id) REFERENCES course_module(course_id, id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_course_module_position ON course_module(course_id, position);
	CREATE INDEX IF NOT EXISTS idx_module_content_position ON module_content(course_id, module_id, position);`,
	},
	{
		version: 2,
		name:    "employees",
		sql: `
	CREATE TABLE IF NOT EXISTS employee (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS progress_record (
		employee_id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		percent REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (employee_id, course_id),
		FOREIGN KEY (employee_id) REFERENCES employee(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_progress_record_course ON progress_record(course_id);`,
	},
	{
		version: 3,
		name:    "accounts",
		sql: `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL
	);`,
	},
}

// LatestSchemaVersion returns the version the schema reaches after MigrateDB.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// MigrateDB brings the schema up to LatestSchemaVersion.
// PRE: db is a valid database connection
// POST: All pending migrations applied in order, each in its own transaction
func MigrateDB(db *sql.DB) error {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return err
		}
		slog.Info("schema_migrated", "version", m.version, "name", m.name)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version (0 if none).
func SchemaVersion(db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(v.Int64), nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version, name) VALUES (?, ?)", m.version, m.name); err != nil {
		return fmt.Errorf("migration %d (%s) not recorded: %w", m.version, m.name, err)
	}
	return tx.Commit()
}

// Open opens the SQLite database at path with WAL mode, foreign keys and a
// busy timeout, pings it and applies pending migrations.
// POST: Returns a migrated, reachable *sql.DB the caller must close
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if err := MigrateDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}
