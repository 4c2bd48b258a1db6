package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kyleking/supplier-api/internal/errors"
	"github.com/kyleking/supplier-api/internal/logging"
)

const driverName = "sqlite"

// Options tunes the connection pool
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

// DefaultOptions mirrors the configuration defaults
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
		QueryTimeout:    5 * time.Second,
	}
}

// Store is the SQLite database holding the suppliers dataset
type Store struct {
	db           *sql.DB
	path         string
	queryTimeout time.Duration
}

// dsn enables foreign keys and a busy timeout on every pooled connection
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")

	return "file:" + path + "?" + q.Encode()
}

// Open opens (creating if needed) the database at path
func Open(path string, opts Options) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, errors.ErrTypeConnection, "failed to create database directory")
		}
	}

	db, err := sql.Open(driverName, dsn(path))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeConnection, "failed to open database")
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()

		return nil, errors.Wrapf(err, errors.ErrTypeConnection, "failed to connect to database %s", path).
			WithSuggestion("Check that the database path is writable")
	}

	return &Store{db: db, path: path, queryTimeout: opts.QueryTimeout}, nil
}

// DB returns the underlying handle
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// QueryTimeout bounds every request's database work; zero means no bound
func (s *Store) QueryTimeout() time.Duration {
	return s.queryTimeout
}

// Initialize brings the schema up to the latest migration
func (s *Store) Initialize(ctx context.Context) error {
	if err := NewMigrationManager(s.db).MigrateUp(ctx); err != nil {
		return errors.Wrap(err, errors.ErrTypeConnection, "failed to migrate database")
	}

	return nil
}

// Ping verifies the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.ErrTypeConnection, "database is unreachable")
	}

	return nil
}

// Stats reports row counts per table, for the CLI
func (s *Store) Stats(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(dataTables))

	for _, name := range dataTables {
		var n int64
		// Table names come from a fixed list.
		if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", name)).Scan(&n); err != nil {
			return nil, errors.Wrapf(err, errors.ErrTypeQuery, "failed to count rows in %s", name)
		}

		counts[name] = n
	}

	return counts, nil
}

// Close closes the database
func (s *Store) Close() error {
	logging.Debugf("closing database %s", s.path)

	return s.db.Close()
}
