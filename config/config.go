package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=pulsefilter
//	RATE_LIMIT_REQUESTS=60
//	RATE_LIMIT_WINDOW=1m
//	REDIS_ADDR=localhost:6379
//	FILTER_PRESETS_FILE=./presets.yaml
type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Filter    FilterConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host, Port, User, Password, DBName, SSLMode: connection parameters.
//   - URL: computed DSN used by database/sql and goose.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// RateLimitConfig bounds how many requests a client IP may issue per window.
// A Requests value of 0 disables rate limiting.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// RedisConfig points the rate limiter at a shared Redis. An empty Addr keeps
// the counters in process memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// FilterConfig configures the output filtering engine.
//
// Fields:
//   - PresetsFile: optional YAML file with extra presets (see LoadPresets).
//   - MaxBodyBytes: upper bound for POST /api/v1/filter payloads.
type FilterConfig struct {
	PresetsFile  string
	MaxBodyBytes int64
}

// AppConfig is the globally accessible configuration instance, populated once
// by LoadConfig.
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
//   - If required variables are missing or invalid, validateConfig() terminates
//     the app with a descriptive log message.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "pulsefilter")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 60)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("FILTER_PRESETS_FILE", "")
	viper.SetDefault("FILTER_MAX_BODY_BYTES", 4<<20)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   viper.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Filter: FilterConfig{
			PresetsFile:  viper.GetString("FILTER_PRESETS_FILE"),
			MaxBodyBytes: viper.GetInt64("FILTER_MAX_BODY_BYTES"),
		},
	}

	AppConfig.Postgres.URL = AppConfig.Postgres.DSN()

	validateConfig()
}

// DSN builds the PostgreSQL connection string from the connection fields.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

// missingKeys reports the critical settings that are unset or out of range.
func missingKeys(cfg Config) []string {
	var missing []string
	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if cfg.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if cfg.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if cfg.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if cfg.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if cfg.RateLimit.Requests < 0 {
		missing = append(missing, "RATE_LIMIT_REQUESTS")
	}
	if cfg.RateLimit.Requests > 0 && cfg.RateLimit.Window <= 0 {
		missing = append(missing, "RATE_LIMIT_WINDOW")
	}
	if cfg.Filter.MaxBodyBytes <= 0 {
		missing = append(missing, "FILTER_MAX_BODY_BYTES")
	}
	return missing
}

// validateConfig terminates the application when critical settings are
// missing, avoiding runtime failures due to incomplete configuration.
func validateConfig() {
	if missing := missingKeys(AppConfig); len(missing) > 0 {
		log.Fatalf("❌ Missing or invalid environment variables: %v\n", missing)
	}
}
