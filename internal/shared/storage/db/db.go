package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"golang.org/x/sync/singleflight"

	"advisory-backend/internal/shared/telemetry"
)

// Options controls database pool and connectivity behavior.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	// ReadOnly opens every session with default_transaction_read_only.
	// The exporter only reads records; migrations need it off.
	ReadOnly bool
}

var (
	openDB = sql.Open

	sharedGroup singleflight.Group
	sharedMu    sync.Mutex
	sharedDB    *sql.DB
)

// IsLambdaRuntime reports whether the current process is running in AWS Lambda.
func IsLambdaRuntime() bool {
	return strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != ""
}

// DefaultLambdaOptions keeps the pool small; every concurrent invocation
// holds its own.
func DefaultLambdaOptions() Options {
	return Options{
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxIdleTime: 30 * time.Second,
		ConnMaxLifetime: 15 * time.Minute,
		PingTimeout:     3 * time.Second,
		ReadOnly:        true,
	}
}

func DefaultServerOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
		ReadOnly:        true,
	}
}

func DefaultMigrateOptions() Options {
	return Options{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
	}
}

// Merge returns o with every positive field of over applied on top.
func (o Options) Merge(over Options) Options {
	if over.MaxOpenConns > 0 {
		o.MaxOpenConns = over.MaxOpenConns
	}
	if over.MaxIdleConns > 0 {
		o.MaxIdleConns = over.MaxIdleConns
	}
	if over.ConnMaxLifetime > 0 {
		o.ConnMaxLifetime = over.ConnMaxLifetime
	}
	if over.ConnMaxIdleTime > 0 {
		o.ConnMaxIdleTime = over.ConnMaxIdleTime
	}
	if over.PingTimeout > 0 {
		o.PingTimeout = over.PingTimeout
	}
	return o
}

// Connect opens a Postgres pool for the record store and verifies connectivity.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	dsn := databaseURL
	if opts.ReadOnly {
		dsn = withRuntimeParam(dsn, "default_transaction_read_only", "on")
	}

	db, err := openDB("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	applyOptions(db, opts)

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logPoolStats(db, "db.init", opts)
	return db, nil
}

// GetSingleton returns the pool shared by every invocation in this execution
// environment. Concurrent first calls share one Connect; a failed Connect is
// not cached.
func GetSingleton(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if db := loadShared(); db != nil {
		return db, nil
	}
	v, err, _ := sharedGroup.Do("records", func() (any, error) {
		if db := loadShared(); db != nil {
			return db, nil
		}
		db, err := Connect(ctx, databaseURL, opts)
		if err != nil {
			return nil, err
		}
		sharedMu.Lock()
		sharedDB = db
		sharedMu.Unlock()
		telemetry.Info("db.singleton.init", nil)
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sql.DB), nil
}

func loadShared() *sql.DB {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	return sharedDB
}

// withRuntimeParam adds a session parameter to a URL or keyword/value DSN.
// pgx passes settings it does not recognise to the server.
func withRuntimeParam(dsn, key, value string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		if q.Get(key) == "" {
			q.Set(key, value)
		}
		u.RawQuery = q.Encode()
		return u.String()
	}
	if strings.Contains(dsn, key+"=") {
		return dsn
	}
	return strings.TrimSpace(dsn) + " " + key + "=" + value
}

func applyOptions(db *sql.DB, opts Options) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = time.Hour
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

func logPoolStats(db *sql.DB, label string, opts Options) {
	stats := db.Stats()
	telemetry.Info(label, map[string]any{
		"open":      stats.OpenConnections,
		"in_use":    stats.InUse,
		"idle":      stats.Idle,
		"max_open":  stats.MaxOpenConnections,
		"read_only": opts.ReadOnly,
	})
}
