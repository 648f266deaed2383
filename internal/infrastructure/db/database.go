package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/damon-houk/country-currency-service/internal/infrastructure/db/migrations"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// IsPostgresDSN reports whether dsn targets PostgreSQL rather than SQLite
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// NewDB opens the relational database named by dsn. PostgreSQL URLs go through
// pgx; anything else is treated as a SQLite DSN.
func NewDB(ctx context.Context, dsn string, debug bool) (*bun.DB, error) {
	var db *bun.DB

	if IsPostgresDSN(dsn) {
		sqldb, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	} else {
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, err
		}

		sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// one connection keeps the pragmas applied and serializes writers
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())

		for _, pragma := range sqlitePragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
			}
		}
	}

	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// OpenSQL opens the relational database and applies pending migrations
func OpenSQL(ctx context.Context, dsn string, debug bool, log logger.Logger) (*bun.DB, error) {
	db, err := NewDB(ctx, dsn, debug)
	if err != nil {
		return nil, err
	}

	if err := migrations.Run(ctx, db, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// ensureSQLiteDir creates the parent directory of a file-backed SQLite DSN
func ensureSQLiteDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || strings.Contains(path, ":memory:") {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}
