package main

// Run database migrations against DATABASE_URL, or SQLITE_PATH when no
// Postgres URL is configured:
//   go run ./cmd/migrate

import (
	"context"
	"database/sql"
	"os"

	"advisory-backend/internal/bootstrap"
	"advisory-backend/internal/shared/config"
	"advisory-backend/internal/shared/storage/db"
	"advisory-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var (
		sqlDB   *sql.DB
		dialect string
		err     error
	)
	switch cfg.StoreBackend() {
	case "postgres":
		dialect = db.DialectPostgres
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, bootstrap.DBOptions(db.DefaultMigrateOptions(), cfg.DBPool))
	case "sqlite":
		dialect = db.DialectSQLite
		sqlDB, err = db.OpenSQLite(ctx, cfg.SQLitePath)
	default:
		telemetry.Error("migrate.no_database", map[string]any{"detail": "set DATABASE_URL or SQLITE_PATH"})
		os.Exit(1)
	}
	if err != nil {
		telemetry.Error("migrate.connect.failed", map[string]any{"error": err, "dialect": dialect})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB, dialect); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err, "dialect": dialect})
		os.Exit(1)
	}
	telemetry.Info("migrate.complete", map[string]any{"dialect": dialect})
}
