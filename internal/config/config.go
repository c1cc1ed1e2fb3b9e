package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverSQLite   = "sqlite"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseDriver  string
	DatabaseURL     string
	RedisURL        string
	NATSURL         string
	EventsChannel   string
	CatalogCacheTTL time.Duration
	JWTSecret       string
	SubmitRateLimit int
	SeedEnabled     bool
	SeedToken       string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EXAM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "GEMA Exam API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.driver", DatabaseDriverPostgres)
	v.SetDefault("events.channel", "gema:exams")
	v.SetDefault("catalog.cache_ttl", "10m")
	v.SetDefault("submit.rate_limit", 10)
	v.SetDefault("seed.enabled", false)

	ttlString := v.GetString("catalog.cache_ttl")
	if ttlString == "" {
		ttlString = "10m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid catalog cache ttl: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseDriver:  strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		EventsChannel:   v.GetString("events.channel"),
		CatalogCacheTTL: ttl,
		JWTSecret:       v.GetString("jwt.secret"),
		SubmitRateLimit: v.GetInt("submit.rate_limit"),
		SeedEnabled:     v.GetBool("seed.enabled"),
		SeedToken:       v.GetString("seed.token"),
	}

	switch cfg.DatabaseDriver {
	case DatabaseDriverPostgres, DatabaseDriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.SubmitRateLimit <= 0 {
		cfg.SubmitRateLimit = 10
	}

	return cfg, nil
}
