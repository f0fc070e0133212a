package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "DATABASE_URL", "SQLITE_PATH", "EXPORT_PDF_FULL", "EXPORT_FETCH_TIMEOUT", "EXPORT_RATE_PER_MINUTE", "OBJECT_STORE"} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	cfg := Load()
	if cfg.Env != "dev" || cfg.Port != "8080" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.StoreBackend() != "memory" {
		t.Fatalf("expected memory backend, got %s", cfg.StoreBackend())
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local object store, got %s", cfg.ObjectStoreType)
	}
	if cfg.Export.PDFFull || !cfg.Export.ValidatePDF {
		t.Fatalf("unexpected pdf flags %+v", cfg.Export)
	}
	if cfg.Export.FetchTimeout != 10*time.Second || cfg.Export.RatePerMinute != 30 {
		t.Fatalf("unexpected export defaults %+v", cfg.Export)
	}
}

func TestLoadOverridesAndInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("SQLITE_PATH", "/tmp/advisory.db")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("EXPORT_PDF_FULL", "true")
	t.Setenv("EXPORT_FETCH_TIMEOUT", "not-a-duration")
	t.Setenv("EXPORT_RATE_PER_MINUTE", "12")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %s", cfg.Env)
	}
	if cfg.StoreBackend() != "sqlite" {
		t.Fatalf("expected sqlite backend, got %s", cfg.StoreBackend())
	}
	if !cfg.Export.PDFFull {
		t.Fatalf("expected PDFFull")
	}
	if cfg.Export.FetchTimeout != 10*time.Second {
		t.Fatalf("invalid duration should fall back to default, got %s", cfg.Export.FetchTimeout)
	}
	if cfg.Export.RatePerMinute != 12 {
		t.Fatalf("expected rate 12, got %d", cfg.Export.RatePerMinute)
	}
	if len(cfg.CORSAllowOrigin) != 2 || cfg.CORSAllowOrigin[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowOrigin)
	}
}

func TestDotenvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9999\nS3_PREFIX=from-file\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("S3_PREFIX", "")
	os.Unsetenv("S3_PREFIX")

	cfg := Load()
	if cfg.Port != "7070" {
		t.Fatalf("environment should win, got %s", cfg.Port)
	}
	if cfg.S3Prefix != "from-file" {
		t.Fatalf("expected value from .env, got %q", cfg.S3Prefix)
	}
}

func TestLoadDBPoolOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "soon")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	pool := Load().DBPool
	if pool.MaxOpenConns != 7 || pool.MaxIdleConns != 0 {
		t.Fatalf("unexpected conns %+v", pool)
	}
	if pool.ConnMaxLifetime != 20*time.Minute || pool.PingTimeout != time.Second {
		t.Fatalf("unexpected durations %+v", pool)
	}
	if pool.ConnMaxIdleTime != 0 {
		t.Fatalf("invalid duration should leave the default, got %s", pool.ConnMaxIdleTime)
	}
}
