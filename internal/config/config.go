package config

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrEncryptionKey = errors.New("ENCRYPTION_KEY must decode to 32 bytes (64 hex chars or base64)")

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	EncryptionKey string
	JWTSecret     string
	JWTExpiry     time.Duration
	CronSecret    string

	// Reminders
	ReminderSweepInterval time.Duration // 0 disables the in-process sweep
	ReminderBatchSize     int
	LimiterPruneInterval  time.Duration

	// Reverse proxies in front of the server whose X-Forwarded-For is trusted
	TrustedProxyHops int

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Export storage (optional, S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "FutureNote"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envRequired("APP_URL"), // Required: base URL for email links
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver: envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION",
			"file:./data/futurenote.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite&_txlock=immediate"),

		// Security
		EncryptionKey: envRequired("ENCRYPTION_KEY"),
		JWTSecret:     envRequired("JWT_SECRET"),
		JWTExpiry:     envDuration("JWT_EXPIRY", 24*time.Hour),
		CronSecret:    envString("CRON_SECRET", ""),

		// Reminders
		ReminderSweepInterval: envDuration("REMINDER_SWEEP_INTERVAL", time.Hour),
		ReminderBatchSize:     envInt("REMINDER_BATCH_SIZE", 50),
		LimiterPruneInterval:  envDuration("LIMITER_PRUNE_INTERVAL", 10*time.Minute),
		TrustedProxyHops:      envInt("TRUSTED_PROXY_HOPS", 0),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "FutureNote <noreply@example.com>"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Export storage (exports are disabled without a bucket)
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
	}

	_, err = cfg.EncryptionKeyBytes()
	if err != nil {
		slog.Error("invalid encryption key", "error", err)
		os.Exit(1)
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development logs emails instead of sending them and leaves the cron endpoint closed without a secret.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if cfg.CronSecret == "" {
		slog.Error("production deployment requires CRON_SECRET")
		os.Exit(1)
	}
}

// EncryptionKeyBytes decodes ENCRYPTION_KEY from hex or standard base64.
func (c *Config) EncryptionKeyBytes() ([]byte, error) {
	return decodeKey(c.EncryptionKey)
}

func decodeKey(s string) ([]byte, error) {
	if len(s) == 64 {
		key, err := hex.DecodeString(s)
		if err == nil {
			return key, nil
		}
	}

	key, err := base64.StdEncoding.DecodeString(s)
	if err == nil && len(key) == 32 {
		return key, nil
	}

	return nil, ErrEncryptionKey
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets, credentials, and sensitive data are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:   c.AppName,
		AppEnv:    c.AppEnv,
		AppURL:    c.AppURL,
		Port:      c.Port,
		EmailFrom: c.EmailFrom,
	}
}
