package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	Environment    string   `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	FrontendURL    string   `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Database Config
	DatabaseURL       string        `env:"DATABASE_URL"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	GuestDBPath       string        `env:"GUEST_DB_PATH" envDefault:"guests.db"`

	RedisURL      string `env:"REDIS_URL"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Security
	JWTSecret             string `env:"JWT_SECRET" envDefault:"your-secret-key-change-this-in-production"`
	AccessTokenTTLMinutes int    `env:"ACCESS_TOKEN_TTL_MINUTES" envDefault:"4320"`
	BcryptCost            int    `env:"BCRYPT_COST" envDefault:"12"`

	// Game
	TiersFile          string        `env:"TIERS_FILE"`
	RestartCooldown    time.Duration `env:"RESTART_COOLDOWN" envDefault:"3s"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"1h"`
	CleanupInterval    time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`
	GuestRetentionDays int           `env:"GUEST_RETENTION_DAYS" envDefault:"180"`
}

// LoadConfig reads the process environment. Call godotenv first to pick up
// a local .env file.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Frontend URL + local dev server + extra CSV values
	origins := []string{cfg.FrontendURL, "http://localhost:5173"}
	for _, origin := range cfg.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	cfg.AllowedOrigins = dedupe(origins)

	if cfg.RestartCooldown < 0 || cfg.AccessTokenTTLMinutes <= 0 {
		return nil, fmt.Errorf("invalid durations: cooldown %v, token ttl %d", cfg.RestartCooldown, cfg.AccessTokenTTLMinutes)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
