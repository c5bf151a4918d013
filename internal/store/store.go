package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Driver names a supported database backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Store holds the audit history database.
type Store struct {
	db     *sql.DB
	driver Driver
}

// Open connects to the database at dsn and creates the audit tables if
// they don't exist. SQLite connections get the recommended pragmas.
func Open(ctx context.Context, driver Driver, dsn string) (*Store, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite"
	case DriverPostgres:
		drvName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if driver == DriverSQLite {
		// One writer at a time; the pragmas are per connection.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// OpenDSN opens the store named by a --db value. Postgres URLs select the
// pgx driver; anything else is a SQLite file path. An empty value resolves
// to DefaultDBPath.
func OpenDSN(ctx context.Context, dsn string) (*Store, error) {
	driver, dsn, err := ResolveDSN(dsn)
	if err != nil {
		return nil, err
	}
	return Open(ctx, driver, dsn)
}

// ResolveDSN maps a --db value to a driver and connection string.
func ResolveDSN(dsn string) (Driver, string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres, dsn, nil
	}
	if dsn == "" {
		p, err := DefaultDBPath()
		if err != nil {
			return "", "", err
		}
		dsn = p
	}
	return DriverSQLite, dsn, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the backend in use.
func (s *Store) Driver() Driver {
	return s.driver
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Runs returns a RunRepo backed by this store.
func (s *Store) Runs() RunRepo {
	return &runRepo{s: s}
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS audit_runs (
		id TEXT PRIMARY KEY,
		created_at BIGINT NOT NULL,
		source TEXT NOT NULL,
		target_per_bucket INTEGER NOT NULL,
		total INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		errors INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_issues (
		run_id TEXT NOT NULL REFERENCES audit_runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		level TEXT NOT NULL,
		code TEXT NOT NULL,
		message TEXT NOT NULL,
		question_id TEXT NOT NULL,
		section TEXT NOT NULL,
		topic TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		context_json TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS audit_rows (
		run_id TEXT NOT NULL REFERENCES audit_runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		question_id TEXT NOT NULL,
		section TEXT NOT NULL,
		topic TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		template TEXT NOT NULL,
		has_visual INTEGER NOT NULL,
		visual_type TEXT NOT NULL,
		visual_shape TEXT NOT NULL,
		answer_index INTEGER NOT NULL,
		correct_choice TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		valid INTEGER NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,
	`CREATE INDEX IF NOT EXISTS audit_runs_created_at ON audit_runs (created_at)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $1, $2, ... for Postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SATPREP_DB environment variable
// 2. $XDG_DATA_HOME/satprep/satprep.db
// 3. ~/.local/share/satprep/satprep.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SATPREP_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "satprep", "satprep.db")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
