package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"advisory-backend/internal/shared/telemetry"
)

// loadEnvFiles loads KEY=VALUE files that exist. Variables already present in
// the environment win over file values.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			telemetry.Warn("config.dotenv.failed", map[string]any{
				"path":  path,
				"error": err,
			})
		}
	}
}
