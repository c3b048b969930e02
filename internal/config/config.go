package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseDriver         string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	NATSSubject            string
	SessionSecret          string
	SessionTTL             time.Duration
	SessionCookieSecure    bool
	DashboardCacheTTL      time.Duration
	DocumentsDir           string
	DocumentsMaxSizeMB     int
	DocumentsOwnerOnly     bool
	SeedAdminPassword      string
	LoginRateLimit         int
	SessionCleanupSchedule string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether internal error details must be withheld from clients.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.AppEnv), "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("NIGHTGUARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "NightGuard API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("nats.subject", "nightguard.operations")
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("session.cookie_secure", false)
	v.SetDefault("dashboard.cache_ttl", "30s")
	v.SetDefault("documents.dir", "uploads")
	v.SetDefault("documents.max_size_mb", 5)
	v.SetDefault("documents.owner_only", false)
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("maintenance.session_cleanup_cron", "@hourly")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	sessionTTL, err := parseDuration(v.GetString("session.ttl"), 12*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid session ttl: %w", err)
	}

	cacheTTL, err := parseDuration(v.GetString("dashboard.cache_ttl"), 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseDriver:         strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		NATSSubject:            v.GetString("nats.subject"),
		SessionSecret:          v.GetString("session.secret"),
		SessionTTL:             sessionTTL,
		SessionCookieSecure:    v.GetBool("session.cookie_secure"),
		DashboardCacheTTL:      cacheTTL,
		DocumentsDir:           v.GetString("documents.dir"),
		DocumentsMaxSizeMB:     v.GetInt("documents.max_size_mb"),
		DocumentsOwnerOnly:     v.GetBool("documents.owner_only"),
		SeedAdminPassword:      v.GetString("seed.admin_password"),
		LoginRateLimit:         v.GetInt("auth.login_rate_limit"),
		SessionCleanupSchedule: v.GetString("maintenance.session_cleanup_cron"),
	}

	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("session secret must be provided")
	}

	switch cfg.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("database url must be provided for driver %q", cfg.DatabaseDriver)
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if cfg.DocumentsMaxSizeMB <= 0 {
		cfg.DocumentsMaxSizeMB = 5
	}

	if cfg.LoginRateLimit <= 0 {
		cfg.LoginRateLimit = 10
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}
