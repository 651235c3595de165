package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=packflow
//	AUTH_JWT_SECRET=change-me
//	SMSWORKS_JWT=...
//	REDIS_ADDR=localhost:6379
//	METRICS_REALIZED_STATUSES=accepted,paid
type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Auth      AuthConfig
	SMS       SMSConfig
	Redis     RedisConfig
	Metrics   MetricsConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port      string // TCP port the HTTP server listens on (e.g., "8080")
	StaticDir string // directory with the browser client; empty disables static serving
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql and migrations.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// AuthConfig holds the bearer token secret and the values published to the browser.
type AuthConfig struct {
	JWTSecret     string
	PublicURL     string
	PublicAnonKey string
}

// SMSConfig configures the SMS gateway client. An empty Token disables sending.
type SMSConfig struct {
	Token   string
	Sender  string
	BaseURL string
	Timeout time.Duration
}

// RedisConfig configures the payment cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// MetricsConfig tunes the revenue engine.
type MetricsConfig struct {
	RealizedStatuses []string
	MaxBuckets       int
	Timezone         string
}

// RateLimitConfig sets the per-IP limits for the API and for SMS sends.
type RateLimitConfig struct {
	Max       int
	Window    time.Duration
	SMSMax    int
	SMSWindow time.Duration
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or malformed, validateConfig() terminates
//     the app with a descriptive log message.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("STATIC_DIR", "public")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "packflow")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("SMSWORKS_SENDER", "PackFlow")
	viper.SetDefault("SMSWORKS_BASE_URL", "https://api.thesmsworks.co.uk")
	viper.SetDefault("SMSWORKS_TIMEOUT", "10s")

	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_TTL", "30s")

	viper.SetDefault("METRICS_REALIZED_STATUSES", "accepted,paid")
	viper.SetDefault("METRICS_MAX_BUCKETS", 5000)
	viper.SetDefault("METRICS_TIMEZONE", "UTC")

	viper.SetDefault("RATE_LIMIT_MAX", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW", "15m")
	viper.SetDefault("SMS_RATE_LIMIT_MAX", 10)
	viper.SetDefault("SMS_RATE_LIMIT_WINDOW", "1h")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:      viper.GetString("SERVER_PORT"),
			StaticDir: viper.GetString("STATIC_DIR"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Auth: AuthConfig{
			JWTSecret:     viper.GetString("AUTH_JWT_SECRET"),
			PublicURL:     viper.GetString("PUBLIC_AUTH_URL"),
			PublicAnonKey: viper.GetString("PUBLIC_AUTH_ANON_KEY"),
		},
		SMS: SMSConfig{
			Token:   viper.GetString("SMSWORKS_JWT"),
			Sender:  viper.GetString("SMSWORKS_SENDER"),
			BaseURL: viper.GetString("SMSWORKS_BASE_URL"),
			Timeout: viper.GetDuration("SMSWORKS_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      viper.GetDuration("CACHE_TTL"),
		},
		Metrics: MetricsConfig{
			RealizedStatuses: SplitList(viper.GetString("METRICS_REALIZED_STATUSES")),
			MaxBuckets:       viper.GetInt("METRICS_MAX_BUCKETS"),
			Timezone:         viper.GetString("METRICS_TIMEZONE"),
		},
		RateLimit: RateLimitConfig{
			Max:       viper.GetInt("RATE_LIMIT_MAX"),
			Window:    viper.GetDuration("RATE_LIMIT_WINDOW"),
			SMSMax:    viper.GetInt("SMS_RATE_LIMIT_MAX"),
			SMSWindow: viper.GetDuration("SMS_RATE_LIMIT_WINDOW"),
		},
	}

	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig terminates the application when required variables are
// missing, so misconfiguration fails at startup instead of on first use.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if AppConfig.Auth.JWTSecret == "" {
		missing = append(missing, "AUTH_JWT_SECRET")
	}
	if len(AppConfig.Metrics.RealizedStatuses) == 0 {
		missing = append(missing, "METRICS_REALIZED_STATUSES")
	}

	if len(missing) > 0 {
		log.Fatalf("❌ Missing required environment variables: %v\n", missing)
	}
}
