package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"advisory-backend/internal/download"
	"advisory-backend/internal/export"
	"advisory-backend/internal/extract"
	"advisory-backend/internal/records"
	"advisory-backend/internal/services/health"
	"advisory-backend/internal/shared/config"
	"advisory-backend/internal/shared/server"
	"advisory-backend/internal/shared/storage/db"
	"advisory-backend/internal/shared/storage/object"
	localstore "advisory-backend/internal/shared/storage/object/local"
	s3store "advisory-backend/internal/shared/storage/object/s3"
	"advisory-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	Records       records.Store
	Store         object.ObjectStore
	ExportService *export.Service
	ExportHandler *export.Handler
	StagedHandler *download.StagedHandler
	// Revokes holds staged-copy revokes; Lambda drains overdue ones per invocation.
	Revokes *download.RevokeQueue
}

// Build wires storage, the export service and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	app, err := BuildCore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sweepStaged(ctx, app.Store, cfg.Export.StagingTTL)

	stager := download.ObjectStager{Store: app.Store, URLBase: server.StagedExportsPath}
	app.Revokes = download.NewRevokeQueue()
	app.ExportHandler = export.NewHandler(app.ExportService, app.Records, stager, cfg.Export.StagingTTL)
	app.ExportHandler.ScheduleRevoke = app.Revokes.Schedule
	app.StagedHandler = &download.StagedHandler{Store: app.Store}
	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Profiles:      app.Records,
		ExportHandler: app.ExportHandler,
		StagedHandler: app.StagedHandler,
		Health:        health.NewService(pinger),
	})
	return app, nil
}

// BuildCore wires storage and the export service without HTTP routes.
func BuildCore(ctx context.Context, cfg config.Config) (*App, error) {
	sqlDB, store, err := buildRecords(ctx, cfg)
	if err != nil {
		return nil, err
	}

	objects, err := buildStore(ctx, cfg)
	if err != nil {
		if sqlDB != nil {
			sqlDB.Close()
		}
		return nil, err
	}

	svc := export.NewService(store, cfg.Export.PDFFull)
	svc.FetchTimeout = cfg.Export.FetchTimeout
	if cfg.Export.ValidatePDF {
		svc.ValidatePDF = extract.ValidatePDF
	}

	return &App{
		Config:        cfg,
		DB:            sqlDB,
		Records:       store,
		Store:         objects,
		ExportService: svc,
	}, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildRecords(ctx context.Context, cfg config.Config) (*sql.DB, records.Store, error) {
	switch cfg.StoreBackend() {
	case "postgres":
		var (
			sqlDB *sql.DB
			err   error
		)
		if db.IsLambdaRuntime() {
			sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, DBOptions(db.DefaultLambdaOptions(), cfg.DBPool))
		} else {
			sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, DBOptions(db.DefaultServerOptions(), cfg.DBPool))
		}
		if err != nil {
			if isDevLike(cfg.Env) {
				telemetry.Warn("bootstrap.database.fallback", map[string]any{"error": err})
				return nil, records.NewMemoryStore(), nil
			}
			return nil, nil, err
		}
		return sqlDB, &records.SQLStore{DB: sqlDB, Dialect: records.DialectPostgres}, nil

	case "sqlite":
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(ctx, sqlDB, db.DialectSQLite); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("sqlite migrations: %w", err)
		}
		return sqlDB, &records.SQLStore{DB: sqlDB, Dialect: records.DialectSQLite}, nil

	default:
		if !isDevLike(cfg.Env) {
			return nil, nil, fmt.Errorf("DATABASE_URL or SQLITE_PATH is required")
		}
		telemetry.Info("bootstrap.records.memory", nil)
		return nil, records.NewMemoryStore(), nil
	}
}

// sweepStaged clears local staged copies older than ttl. S3 relies on its
// lifecycle rule instead.
func sweepStaged(ctx context.Context, store object.ObjectStore, ttl time.Duration) {
	local, ok := store.(*localstore.Store)
	if !ok {
		return
	}
	if ttl <= 0 {
		ttl = download.DefaultRevokeDelay
	}
	n, err := local.Sweep(ctx, download.StagedPrefix, time.Now().Add(-ttl))
	if err != nil {
		telemetry.Warn("bootstrap.staged.sweep_failed", map[string]any{"error": err})
		return
	}
	if n > 0 {
		telemetry.Info("bootstrap.staged.swept", map[string]any{"removed": n})
	}
}

// DBOptions applies configured pool overrides to defaults.
func DBOptions(defaults db.Options, pool config.DBPoolConfig) db.Options {
	return defaults.Merge(db.Options{
		MaxOpenConns:    pool.MaxOpenConns,
		MaxIdleConns:    pool.MaxIdleConns,
		ConnMaxLifetime: pool.ConnMaxLifetime,
		ConnMaxIdleTime: pool.ConnMaxIdleTime,
		PingTimeout:     pool.PingTimeout,
	})
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.SSEKMSKeyID,
			TTL:      cfg.Export.StagingTTL,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
