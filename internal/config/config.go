package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageS3    = "s3"
	StorageLocal = "local"
)

// DefaultSQLiteConnection enables WAL so downloads can be counted while pages
// read. The busy timeout and immediate transactions queue concurrent writers.
const DefaultSQLiteConnection = "./data/notes.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_txlock=immediate"

type Config struct {
	// Application
	AppName  string
	AppEnv   string
	AppURL   string
	Port     string
	TimeZone string // IANA name or "Local"; anchors "today" in analytics

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret    string
	JWTExpiry    time.Duration
	CookieSecure bool
	TrustProxy   bool // Rate limits key on X-Forwarded-For only behind a trusted proxy

	// Email
	EmailFrom          string
	ResendAPIKey       string
	ContactNotifyEmail string // Optional: inbox notified on new contact messages

	// Observability (optional)
	SentryDSN string

	// Uploads
	MaxUploadSize int64

	// Storage
	StorageDriver    string // "s3" or "local"
	LocalStoragePath string

	// S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string        // Optional: for S3-compatible services
	S3PresignExpiry time.Duration // Lifetime of download links
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:  envString("APP_NAME", "SM Academy"),
		AppEnv:   envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:   envRequired("APP_URL"), // Required: base URL for sitemap links
		Port:     envString("PORT", "8090"),
		TimeZone: envString("APP_TIMEZONE", "Local"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", DefaultSQLiteConnection),

		// Security
		JWTSecret:    envRequired("JWT_SECRET"),
		JWTExpiry:    envDuration("JWT_EXPIRY", 24*time.Hour),
		CookieSecure: envBool("COOKIE_SECURE", envString("APP_ENV", "development") == "production"),
		TrustProxy:   envBool("TRUST_PROXY", false),

		// Email (RESEND_API_KEY optional in development)
		EmailFrom:          envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey:       envString("RESEND_API_KEY", ""),
		ContactNotifyEmail: envString("CONTACT_NOTIFY_EMAIL", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Uploads
		MaxUploadSize: envInt64("MAX_UPLOAD_SIZE", 50<<20), // 50MB

		// Storage
		StorageDriver:    envString("STORAGE_DRIVER", StorageS3),
		LocalStoragePath: envString("LOCAL_STORAGE_PATH", "./data/uploads"),

		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 15*time.Minute),
	}

	if cfg.StorageDriver == StorageS3 {
		for _, key := range []string{"S3_REGION", "S3_BUCKET"} {
			envRequired(key)
		}
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures required services are configured for production deployments.
func validateProduction(cfg *Config) {
	if cfg.ContactNotifyEmail != "" && cfg.ResendAPIKey == "" {
		slog.Error("production deployment with CONTACT_NOTIFY_EMAIL requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if len(cfg.JWTSecret) < 32 {
		slog.Error("production deployment requires JWT_SECRET of at least 32 bytes")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
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

// Location resolves TimeZone, falling back to the server's local zone.
func (c *Config) Location() *time.Location {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		slog.Warn("config invalid time zone, using local", "value", c.TimeZone, "error", err)
		return time.Local
	}
	return loc
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets, credentials, and sensitive data are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:       c.AppName,
		AppEnv:        c.AppEnv,
		AppURL:        c.AppURL,
		Port:          c.Port,
		TimeZone:      c.TimeZone,
		DBDriver:      c.DBDriver,
		TrustProxy:    c.TrustProxy,
		EmailFrom:     c.EmailFrom,
		MaxUploadSize: c.MaxUploadSize,
		StorageDriver: c.StorageDriver,
		S3Bucket:      c.S3Bucket,
		S3Endpoint:    c.S3Endpoint,
	}
}
