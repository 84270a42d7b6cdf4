package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App struct {
		ENV string
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	HTTP struct {
		Host string
		Port string
	}

	Feed struct {
		PageSizeMax int // hard cap on requested page size
		ScanFactor  int // scan at most ScanFactor*pageSize order entries per call
	}

	Rotation struct {
		Cron    string // cron expression for the daily job; empty disables scheduling
		LockTTL time.Duration
	}
}

func New() *Config {
	cfg := &Config{}

	// App
	cfg.App.ENV = getEnvDefault("APP_ENV", "development")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "feed_server")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.DSN = os.Getenv("MYSQL_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "matchfeed")

		cfg.DB.DSN = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "127.0.0.1")
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", "8080")

	// Feed
	cfg.Feed.PageSizeMax = getEnvInt("FEED_PAGE_SIZE_MAX", 50)
	cfg.Feed.ScanFactor = getEnvInt("FEED_SCAN_FACTOR", 10)

	// Rotation. The advisory lock doubles as the once-per-day guard,
	// so its TTL defaults to slightly over a day.
	cfg.Rotation.Cron = getEnvDefault("ROTATION_CRON", "0 5 * * *")
	cfg.Rotation.LockTTL = getEnvDuration("ROTATION_LOCK_TTL", 26*time.Hour)

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
