package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort           = "8080"
	defaultDatabaseURL    = "catalog.db"
	defaultImageDir       = "public/images"
	defaultImageURLBase   = "/images"
	defaultMaxUploadSize  = "10485760"
	defaultSessionSecret  = "change-me-session-secret"
	defaultShutdownTTL    = "10s"
	defaultDBLogLevel     = "warn"
	defaultCleanupGrace   = "1h"
	defaultSessionName    = "catalog_session"
	minSessionSecretBytes = 16
)

type RuntimeConfig struct {
	AppEnv          string
	Port            string
	DatabaseURL     string
	DBLogLevel      string
	ImageDir        string
	ImageURLBase    string
	MaxUploadSize   int64
	SessionName     string
	SessionSecret   string
	ShutdownTimeout time.Duration
	CleanupGrace    time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() (*RuntimeConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("config: .env file not found, using process environment")
	}
	return LoadFromEnv()
}

// LoadFromEnv builds the config from the process environment only.
func LoadFromEnv() (*RuntimeConfig, error) {
	cfg := &RuntimeConfig{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.DBLogLevel = strings.ToLower(strings.TrimSpace(getEnv("DB_LOG_LEVEL", defaultDBLogLevel)))
	cfg.ImageDir = strings.TrimSpace(getEnv("IMAGE_DIR", defaultImageDir))
	cfg.ImageURLBase = strings.TrimRight(strings.TrimSpace(getEnv("IMAGE_URL_BASE", defaultImageURLBase)), "/")
	cfg.SessionName = strings.TrimSpace(getEnv("SESSION_NAME", defaultSessionName))
	cfg.SessionSecret = strings.TrimSpace(getEnv("SESSION_SECRET", defaultSessionSecret))

	var err error
	cfg.MaxUploadSize, err = parseInt64Env("MAX_UPLOAD_SIZE", defaultMaxUploadSize)
	if err != nil {
		return nil, err
	}

	cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTTL)
	if err != nil {
		return nil, err
	}

	cfg.CleanupGrace, err = parseDurationEnv("CLEANUP_GRACE", defaultCleanupGrace)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("runtime config: env=%s port=%s image_dir=%s max_upload=%d", cfg.AppEnv, cfg.Port, cfg.ImageDir, cfg.MaxUploadSize)

	return cfg, nil
}

// IsProd reports whether the config targets a production-like environment.
func (c *RuntimeConfig) IsProd() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *RuntimeConfig) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.ImageDir == "" {
		return fmt.Errorf("IMAGE_DIR must not be empty")
	}
	if !strings.HasPrefix(cfg.ImageURLBase, "/") {
		return fmt.Errorf("IMAGE_URL_BASE must start with /")
	}
	if cfg.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.CleanupGrace < 0 {
		return fmt.Errorf("CLEANUP_GRACE must be >= 0")
	}
	if cfg.SessionName == "" {
		return fmt.Errorf("SESSION_NAME must not be empty")
	}
	switch cfg.DBLogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("DB_LOG_LEVEL must be one of: silent, error, warn, info")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.SessionSecret, defaultSessionSecret) {
			return fmt.Errorf("in prod/release SESSION_SECRET must be set and not default")
		}
		if len(cfg.SessionSecret) < minSessionSecretBytes {
			return fmt.Errorf("in prod/release SESSION_SECRET must be at least %d bytes", minSessionSecretBytes)
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseInt64Env(name, fallback string) (int64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
