package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register the pure-Go sqlite driver
)

const sqliteMemory = ":memory:"

var sqlitePragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// OpenSQLite opens a SQLite database file with the pragmas the record store relies on.
// ":memory:" is pinned to a single connection so every query sees the same database.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("SQLITE_PATH is empty")
	}
	if path != sqliteMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir sqlite dir: %w", err)
		}
	}

	database, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == sqliteMemory {
		database.SetMaxOpenConns(1)
		database.SetConnMaxLifetime(0)
	} else {
		database.SetMaxOpenConns(4)
		database.SetConnMaxIdleTime(2 * time.Minute)
		if _, err := database.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
			database.Close()
			return nil, fmt.Errorf("sqlite journal_mode: %w", err)
		}
	}
	for _, pragma := range sqlitePragmas {
		if _, err := database.ExecContext(ctx, pragma); err != nil {
			database.Close()
			return nil, fmt.Errorf("sqlite %q: %w", pragma, err)
		}
	}
	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	logPoolStats(database, "db.sqlite.init", Options{})
	return database, nil
}
