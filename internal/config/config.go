// Package config loads and validates the service configuration from
// environment variables.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/postboard/postboard/pkg/config"
	"github.com/postboard/postboard/pkg/database"
)

const defaultSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"postboard"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"postboard_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"postboard_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tokens. Access and refresh tokens are signed with separate secrets.
	JWTAccessSecret  string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTAccessExpiry  time.Duration `env:"JWT_ACCESS_EXPIRES_IN" envDefault:"1h"`
	JWTRefreshExpiry time.Duration `env:"JWT_REFRESH_EXPIRES_IN" envDefault:"168h"`

	// Password hashing work factor.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	// Outside development, both secrets must be explicitly set, strong,
	// and distinct from each other.
	if cfg.Environment != "development" {
		for name, secret := range map[string]string{
			"JWT_SECRET":         cfg.JWTAccessSecret,
			"JWT_REFRESH_SECRET": cfg.JWTRefreshSecret,
		} {
			if secret == defaultSecret {
				return nil, fmt.Errorf("%s must be explicitly set via environment variable in %q mode", name, cfg.Environment)
			}
			if len(secret) < 32 {
				return nil, fmt.Errorf("%s must be at least 32 characters long, got %d", name, len(secret))
			}
		}
		if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
			return nil, fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ in %q mode", cfg.Environment)
		}
	}

	return cfg, nil
}

// Postgres returns the database pool configuration.
func (c *Config) Postgres() *database.Config {
	return &database.Config{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPass,
		DBName:   c.PostgresDB,
		SSLMode:  c.PostgresSSL,
	}
}
