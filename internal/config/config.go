package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Store drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Storage
	StoreDriver string        // sqlite | postgres
	DBPath      string        // sqlite database file
	DatabaseURL string        // postgres connection string
	TablePrefix string        // postgres only
	LockTimeout time.Duration // max wait for the store's transaction slot
	// Logging
	LogDir      string // optional; logs are also written to timestamped files here
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:1420,tauri://localhost"),
		StoreDriver: getEnv("STORE_DRIVER", DriverSQLite),
		DBPath:      getEnv("DB_PATH", defaultDBPath()),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getTablePrefix(env),
		LockTimeout: getDuration("LOCK_TIMEOUT", DefaultLockTimeout),
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 10),
	}
}

// defaultDBPath places the database in the user's data directory
func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "editor.sqlite"
	}
	return filepath.Join(dir, "notestore", "editor.sqlite")
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix, ok := os.LookupEnv("TABLE_PREFIX"); ok {
		return prefix
	}

	switch env {
	case "prod":
		return ""
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
