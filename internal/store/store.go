package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"moviepipe/internal/config"
	"moviepipe/internal/logging"
)

const (
	driverSQLite = "sqlite"
	driverMySQL  = "mysql"
)

// Store writes dataset tables into a relational database.
type Store struct {
	db      *sql.DB
	dialect dialect
	target  string
	logger  *slog.Logger
}

// Open connects to the configured database and verifies the connection.
// SQLite databases are created on demand, including their parent directory.
func Open(ctx context.Context, cfg config.Store, logger *slog.Logger) (*Store, error) {
	logger = logging.NewComponentLogger(logger, "store")
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("store dsn is required")
	}

	var (
		db     *sql.DB
		d      dialect
		target string
		err    error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case driverSQLite, "":
		db, target, err = openSQLite(ctx, dsn)
		d = sqliteDialect
	case driverMySQL:
		db, target, err = openMySQL(dsn)
		d = mysqlDialect
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s store %s: %w", d.name, target, err)
	}

	logger.Debug("store opened", logging.String("driver", d.name), logging.String("target", target))
	return &Store{db: db, dialect: d, target: target, logger: logger}, nil
}

func openSQLite(ctx context.Context, dsn string) (*sql.DB, string, error) {
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, "", fmt.Errorf("create store directory: %w", err)
		}
	}
	db, err := sql.Open(driverSQLite, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps :memory: databases and pragmas consistent.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, "", fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return db, dsn, nil
}

func openMySQL(dsn string) (*sql.DB, string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("create mysql connector: %w", err)
	}
	target := cfg.Addr + "/" + cfg.DBName
	return sql.OpenDB(connector), target, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Target describes the database being written, without credentials.
func (s *Store) Target() string {
	if s == nil {
		return ""
	}
	return s.target
}

// DB exposes the underlying handle for read-side queries.
func (s *Store) DB() *sql.DB {
	return s.db
}
