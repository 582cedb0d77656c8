package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL driver and placeholder style.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ErrUnknownDialect is returned for an unsupported database driver name.
var ErrUnknownDialect = errors.New("unknown database dialect")

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDialect, s)
}

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// sqlitePragmas are applied to every pooled connection.
var sqlitePragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
	"_pragma=journal_mode(WAL)",
}

// Open opens a connection pool for the dialect.
// PRE: dsn is a driver-specific data source name
// POST: Returns an unpinged *sql.DB
func Open(d Dialect, dsn string) (*sql.DB, error) {
	if d == DialectSQLite && !strings.Contains(dsn, "_pragma=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + strings.Join(sqlitePragmas, "&")
	}
	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d, err)
	}
	return db, nil
}

// migration is one forward-only schema step.
type migration struct {
	version    int
	name       string
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "baseline",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS event_detail (
				id TEXT PRIMARY KEY,
				event_name TEXT NOT NULL,
				category TEXT NOT NULL,
				event_date TEXT NOT NULL,
				reg_start_date TEXT NOT NULL,
				reg_end_date TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_event_detail_category_date ON event_detail (category, event_date)`,
			`CREATE TABLE IF NOT EXISTS event_registration (
				id TEXT PRIMARY KEY,
				full_name TEXT NOT NULL,
				email TEXT NOT NULL,
				college TEXT NOT NULL,
				department TEXT NOT NULL,
				event_id TEXT NOT NULL,
				created_at TEXT NOT NULL,
				FOREIGN KEY (event_id) REFERENCES event_detail(id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_event_registration_event ON event_registration (event_id)`,
			`CREATE TABLE IF NOT EXISTS module_settings (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				enable_notifications INTEGER NOT NULL DEFAULT 0,
				admin_email TEXT NOT NULL DEFAULT '',
				updated_at TEXT NOT NULL
			)`,
		},
	},
	{
		version: 2,
		name:    "registration_unique_email_event",
		statements: []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_event_registration_email_event ON event_registration (email, event_id)`,
		},
	},
}

// LatestSchemaVersion returns the version reached after all migrations.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, 0 for an empty database.
// PRE: db is a valid database connection
// POST: Returns the highest version recorded in schema_version
func SchemaVersion(db *sql.DB, d Dialect) (int, error) {
	ctx := context.Background()
	exists := `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'`
	if d == DialectPostgres {
		exists = `SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'schema_version'`
	}
	var n int
	if err := db.QueryRowContext(ctx, exists).Scan(&n); err != nil {
		return 0, fmt.Errorf("check schema_version: %w", err)
	}
	if n == 0 {
		return 0, nil
	}
	var v int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return v, nil
}

// MigrateDB brings the schema up to LatestSchemaVersion.
// PRE: db is a valid database connection
// POST: All pending migrations applied, each in its own transaction
// INVARIANT: Running it twice is a no-op
func MigrateDB(db *sql.DB, d Dialect) error {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db, d)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, d, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, d Dialect, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	insert := Rebind(d, `INSERT INTO schema_version (version, applied_at) VALUES (?, ?)`)
	if _, err := tx.ExecContext(ctx, insert, m.version, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

// Rebind rewrites ? placeholders to $1..$n for Postgres. Placeholders inside
// single-quoted literals are left alone.
func Rebind(d Dialect, query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			fmt.Fprintf(&b, "$%d", n)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
