package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"advisory-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	DatabaseURL string
	SQLitePath  string
	// DBPool overrides pool defaults; zero fields keep the default.
	DBPool DBPoolConfig

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	Export ExportConfig
}

// DBPoolConfig holds DB_* pool overrides.
type DBPoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// ExportConfig tunes the document export pipeline.
type ExportConfig struct {
	// PDFFull renders every section into PDFs instead of the summary set.
	PDFFull bool
	// ValidatePDF runs rendered PDFs through a structural validator.
	ValidatePDF   bool
	FetchTimeout  time.Duration
	StagingTTL    time.Duration
	RatePerMinute int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SQLitePath:      getEnv("SQLITE_PATH", ""),
		DBPool: DBPoolConfig{
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 0),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 0),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 0),
			ConnMaxIdleTime: getDuration("DB_CONN_MAX_IDLE_TIME", 0),
			PingTimeout:     getDuration("DB_PING_TIMEOUT", 0),
		},
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		Export: ExportConfig{
			PDFFull:       getBool("EXPORT_PDF_FULL", false),
			ValidatePDF:   getBool("EXPORT_VALIDATE_PDF", true),
			FetchTimeout:  getDuration("EXPORT_FETCH_TIMEOUT", 10*time.Second),
			StagingTTL:    getDuration("EXPORT_STAGING_TTL", 5*time.Minute),
			RatePerMinute: getInt("EXPORT_RATE_PER_MINUTE", 30),
		},
	}

	if env == "production" && cfg.DatabaseURL == "" && cfg.SQLitePath == "" {
		telemetry.Warn("config.database.missing", map[string]any{
			"detail": "DATABASE_URL or SQLITE_PATH is required in production",
		})
	}
	return cfg
}

// StoreBackend reports which record store the configuration selects.
func (c Config) StoreBackend() string {
	switch {
	case c.DatabaseURL != "":
		return "postgres"
	case c.SQLitePath != "":
		return "sqlite"
	default:
		return "memory"
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getBool(key string, def bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		invalid(key, raw, err)
		return def
	}
	return v
}

func getInt(key string, def int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		invalid(key, raw, err)
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		invalid(key, raw, err)
		return def
	}
	return v
}

func invalid(key, raw string, err error) {
	telemetry.Warn("config.invalid", map[string]any{
		"key":   key,
		"value": raw,
		"error": err,
	})
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
