package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"qraksha/internal/pkg/password"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Alert handling when an employee is deleted
const (
	AlertPolicyOrphan  = "orphan"
	AlertPolicyCascade = "cascade"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	Log       LogConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Cache     CacheConfig
	Redis     RedisConfig
	QR        QRConfig
	Alerts    AlertConfig
	RateLimit RateLimitConfig
	Notify    NotifyConfig
	Seed      SeedConfig
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // mysql, postgres or sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite file or DSN
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// TokenTTL returns the lifetime of issued tokens
func (j JWTConfig) TokenTTL() time.Duration {
	return time.Duration(j.AccessTokenMins) * time.Minute
}

// CacheConfig selects the profile cache backend
type CacheConfig struct {
	Driver     string // redis or memory
	TTLSeconds int
}

// TTL returns the cache entry lifetime
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// QRConfig holds QR payload settings
type QRConfig struct {
	BaseURL string
}

// AlertConfig holds SOS alert policy and monitor settings
type AlertConfig struct {
	DeletePolicy      string
	SweepSchedule     string
	EscalateAfterMins int
}

// EscalateAfter returns how long an alert may stay active before the monitor warns
func (a AlertConfig) EscalateAfter() time.Duration {
	return time.Duration(a.EscalateAfterMins) * time.Minute
}

// RateLimitConfig holds per-IP request limits per minute; 0 disables a limiter
type RateLimitConfig struct {
	GlobalMax int
	AuthMax   int
}

// NotifyConfig holds the SOS webhook target; an empty URL disables notifications
type NotifyConfig struct {
	WebhookURL   string
	WebhookToken string
	TimeoutSecs  int
}

// Timeout returns the per-request webhook timeout
func (n NotifyConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutSecs) * time.Second
}

// SeedConfig holds the bootstrap admin credentials
type SeedConfig struct {
	AdminUsername string
	AdminPassword string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using environment variables")
	}

	// Trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "5000"),
		Log:      loadLogConfig(appMode),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Cache: CacheConfig{
			Driver:     strings.ToLower(getEnv("CACHE_DRIVER", "memory")),
			TTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 300),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		QR: QRConfig{
			BaseURL: getEnv("QR_BASE_URL", "http://localhost:5174"),
		},
		Alerts: AlertConfig{
			DeletePolicy:      strings.ToLower(getEnv("ALERT_DELETE_POLICY", AlertPolicyOrphan)),
			SweepSchedule:     getEnv("ALERT_SWEEP_SCHEDULE", "@every 5m"),
			EscalateAfterMins: getEnvInt("ALERT_ESCALATE_AFTER_MINUTES", 15),
		},
		RateLimit: RateLimitConfig{
			GlobalMax: getEnvInt("RATE_LIMIT", 100),
			AuthMax:   getEnvInt("AUTH_RATE_LIMIT", 5),
		},
		Notify: NotifyConfig{
			WebhookURL:   getEnv("NOTIFY_WEBHOOK_URL", ""),
			WebhookToken: getEnv("NOTIFY_WEBHOOK_TOKEN", ""),
			TimeoutSecs:  getEnvInt("NOTIFY_TIMEOUT_SECONDS", 5),
		},
		Seed: SeedConfig{
			AdminUsername: getEnv("ADMIN_USERNAME", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB_DRIVER: '%s' (must be mysql, postgres or sqlite)", c.Database.Driver)
	}
	switch c.Cache.Driver {
	case "redis", "memory":
	default:
		return fmt.Errorf("invalid CACHE_DRIVER: '%s' (must be redis or memory)", c.Cache.Driver)
	}
	switch c.Alerts.DeletePolicy {
	case AlertPolicyOrphan, AlertPolicyCascade:
	default:
		return fmt.Errorf("invalid ALERT_DELETE_POLICY: '%s' (must be orphan or cascade)", c.Alerts.DeletePolicy)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.IsProd() && c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("PROD_JWT_SECRET must be set in prod mode")
	}
	if c.JWT.AccessTokenMins <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_MINUTES must be positive")
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be positive")
	}
	if c.Alerts.EscalateAfterMins <= 0 {
		return fmt.Errorf("ALERT_ESCALATE_AFTER_MINUTES must be positive")
	}
	if c.Notify.WebhookURL != "" && c.Notify.TimeoutSecs <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT_SECONDS must be positive")
	}
	if len(c.Seed.AdminPassword) > password.MaxBytes {
		return fmt.Errorf("ADMIN_PASSWORD: %w", password.ErrTooLong)
	}
	return nil
}

const defaultJWTSecret = "default_secret"

func loadLogConfig(mode string) LogConfig {
	level, format := "debug", "console"
	if mode == "prod" {
		level, format = "info", "json"
	}
	return LogConfig{
		Level:  getEnv("LOG_LEVEL", level),
		Format: getEnv("LOG_FORMAT", format),
	}
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Driver:   strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "qraksha"),
		SSLMode:  getEnv(prefix+"DB_SSLMODE", "disable"),
		Path:     getEnv(prefix+"DB_PATH", "qraksha.db"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	return JWTConfig{
		Secret:          getEnv(modePrefix(mode)+"JWT_SECRET", defaultJWTSecret),
		AccessTokenMins: getEnvInt("ACCESS_TOKEN_MINUTES", 60),
	}
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("ignoring non-numeric env value")
		return defaultValue
	}
	return n
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return strings.TrimRight(c.QR.BaseURL, "/")
	}
	return origins
}
