package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kapu/codestats-go/internal/constants"
	"github.com/kapu/codestats-go/internal/domain"
)

const (
	ProfileStoreSQLite   = "sqlite"
	ProfileStorePostgres = "postgres"
)

type Config struct {
	Platforms PlatformsConfig
	Dashboard DashboardConfig
	Profile   ProfileConfig
	SQLite    SQLiteConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Identity  IdentityConfig
	Tracing   TracingConfig
	Logging   LoggingConfig
}

type PlatformsConfig struct {
	LeetCodeBaseURL      string
	GFGBaseURL           string
	GFGProfileBaseURL    string
	GFGScraperEnabled    bool
	CodeForcesBaseURL    string
	CodeForcesRatePerSec float64
	HTTPTimeout          time.Duration
}

type DashboardConfig struct {
	CalendarWindowDays int
	EasyMaxRating      int
	MediumMaxRating    int
	BucketPolicy       domain.BucketPolicy
}

type ProfileConfig struct {
	Store string
}

type SQLiteConfig struct {
	Path string
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type IdentityConfig struct {
	SigningSecret string
	Issuer        string
	StreamURL     string
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	policy, ok := domain.ParseBucketPolicy(strings.ToLower(getEnv("GFG_BUCKET_POLICY", constants.Dashboard.DefaultBucketPolicy)))
	if !ok {
		return nil, fmt.Errorf("GFG_BUCKET_POLICY must be %q or %q", domain.BucketPolicySeparate, domain.BucketPolicyFold)
	}

	cfg := &Config{
		Platforms: PlatformsConfig{
			LeetCodeBaseURL:      getEnv("LEETCODE_API_BASE", constants.APIConfig.LeetCodeBaseURL),
			GFGBaseURL:           getEnv("GFG_API_BASE", constants.APIConfig.GFGBaseURL),
			GFGProfileBaseURL:    getEnv("GFG_PROFILE_BASE", constants.APIConfig.GFGProfileBaseURL),
			GFGScraperEnabled:    getEnvBool("GFG_SCRAPER_ENABLED", true),
			CodeForcesBaseURL:    getEnv("CODEFORCES_API_BASE", constants.APIConfig.CodeForcesBaseURL),
			CodeForcesRatePerSec: getEnvFloat("CODEFORCES_RATE_PER_SECOND", constants.CodeForcesLimits.RequestsPerSecond),
			HTTPTimeout:          time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", int(constants.APIConfig.RequestTimeout/time.Second))) * time.Second,
		},
		Dashboard: DashboardConfig{
			CalendarWindowDays: getEnvInt("CALENDAR_WINDOW_DAYS", constants.Dashboard.CalendarWindowDays),
			EasyMaxRating:      getEnvInt("CF_EASY_MAX_RATING", constants.DifficultyThresholds.EasyMax),
			MediumMaxRating:    getEnvInt("CF_MEDIUM_MAX_RATING", constants.DifficultyThresholds.MediumMax),
			BucketPolicy:       policy,
		},
		Profile: ProfileConfig{
			Store: strings.ToLower(getEnv("PROFILE_STORE", ProfileStoreSQLite)),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "data/codestats.db"),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "codestats"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "codestats"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Identity: IdentityConfig{
			SigningSecret: getEnv("IDENTITY_SIGNING_SECRET", ""),
			Issuer:        getEnv("IDENTITY_ISSUER", ""),
			StreamURL:     getEnv("IDENTITY_WS_URL", ""),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvBool("OTEL_ENABLED", false),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "codestats"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Platforms.LeetCodeBaseURL == "" || c.Platforms.GFGBaseURL == "" || c.Platforms.CodeForcesBaseURL == "" {
		return fmt.Errorf("platform API base URLs must not be empty")
	}
	if c.Platforms.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive")
	}
	if c.Platforms.CodeForcesRatePerSec <= 0 {
		return fmt.Errorf("CODEFORCES_RATE_PER_SECOND must be positive")
	}
	if c.Dashboard.CalendarWindowDays <= 0 {
		return fmt.Errorf("CALENDAR_WINDOW_DAYS must be positive")
	}
	if c.Dashboard.EasyMaxRating >= c.Dashboard.MediumMaxRating {
		return fmt.Errorf("CF_EASY_MAX_RATING (%d) must be below CF_MEDIUM_MAX_RATING (%d)",
			c.Dashboard.EasyMaxRating, c.Dashboard.MediumMaxRating)
	}
	switch c.Profile.Store {
	case ProfileStoreSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	case ProfileStorePostgres:
		if c.Postgres.Host == "" || c.Postgres.Database == "" {
			return fmt.Errorf("POSTGRES_HOST and POSTGRES_DB are required")
		}
	default:
		return fmt.Errorf("PROFILE_STORE must be %q or %q", ProfileStoreSQLite, ProfileStorePostgres)
	}
	if c.Identity.StreamURL != "" && c.Identity.SigningSecret == "" {
		return fmt.Errorf("IDENTITY_SIGNING_SECRET is required when IDENTITY_WS_URL is set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
