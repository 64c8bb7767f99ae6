package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds all configuration for our application
type Config struct {
	Port        string          `mapstructure:"PORT"`
	Environment string          `mapstructure:"ENV"`
	LogLevel    string          `mapstructure:"LOG_LEVEL"`
	CORSOrigins []string        `mapstructure:"-"`
	Database    DatabaseConfig  `mapstructure:",squash"`
	Token       TokenConfig     `mapstructure:",squash"`
	RateLimit   RateLimitConfig `mapstructure:",squash"`
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver       string `mapstructure:"DB_DRIVER"`
	DSN          string `mapstructure:"DATABASE_URL"`
	MaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DB_MAX_IDLE_CONNS"`
}

// TokenConfig holds the access token signing settings.
type TokenConfig struct {
	Secret string        `mapstructure:"ACCESS_TOKEN_SECRET"`
	TTL    time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
}

// RateLimitConfig throttles the ungated credential endpoints per client IP.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"AUTH_RATE_LIMIT_RPS"`
	Burst int     `mapstructure:"AUTH_RATE_LIMIT_BURST"`
}

var keys = []string{
	"PORT",
	"ENV",
	"LOG_LEVEL",
	"CORS_ORIGINS",
	"DB_DRIVER",
	"DATABASE_URL",
	"DB_MAX_OPEN_CONNS",
	"DB_MAX_IDLE_CONNS",
	"ACCESS_TOKEN_SECRET",
	"ACCESS_TOKEN_TTL",
	"AUTH_RATE_LIMIT_RPS",
	"AUTH_RATE_LIMIT_BURST",
}

// LoadConfig loads configuration from environment variables and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("ACCESS_TOKEN_TTL", "24h")
	v.SetDefault("AUTH_RATE_LIMIT_RPS", 1)
	v.SetDefault("AUTH_RATE_LIMIT_BURST", 10)

	// Unmarshal only sees keys viper already knows about.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable for startup.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}
	if c.Token.TTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %s", c.Token.TTL)
	}

	switch c.Database.Driver {
	case DriverMySQL:
		if _, err := mysql.ParseDSN(c.Database.DSN); err != nil {
			return fmt.Errorf("invalid DATABASE_URL for mysql: %w", err)
		}
	case DriverPostgres:
		if _, err := pgx.ParseConfig(c.Database.DSN); err != nil {
			return fmt.Errorf("invalid DATABASE_URL for postgres: %w", err)
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverMySQL, DriverPostgres, c.Database.Driver)
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT_RPS and AUTH_RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// IsDev reports whether the server runs in development mode.
func (c *Config) IsDev() bool {
	return c.Environment == "development"
}

// AllowsAllOrigins reports whether CORS is open to any origin.
func (c *Config) AllowsAllOrigins() bool {
	for _, o := range c.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return len(c.CORSOrigins) == 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
