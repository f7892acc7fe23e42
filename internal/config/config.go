package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported values for DB_DRIVER.
const (
	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrMissingJWTSecret is returned when JWT_SECRET is not set.
var ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable is not set")

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort             string
	Environment            string
	LogLevel               string
	DBDriver               string
	DatabaseDSN            string
	RedisAddr              string
	RedisDB                int
	RedisPass              string
	JWTSecret              string
	SwaggerHost            string
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// Load builds Config from an optional .env file and the environment.
// It fails when the signing secret is absent instead of falling back to a default.
func Load() (*Config, error) {
	// .env is optional; real environment variables always win.
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:             getEnv("PORT", "3000"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		DBDriver:               strings.ToLower(getEnv("DB_DRIVER", DriverMemory)),
		DatabaseDSN:            os.Getenv("DATABASE_DSN"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisDB:                getEnvInt("REDIS_DB", 0),
		RedisPass:              os.Getenv("REDIS_PASSWORD"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		SwaggerHost:            os.Getenv("SWAGGER_HOST"),
		BootstrapAdminEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	switch c.DBDriver {
	case DriverMemory:
	case DriverMySQL, DriverPostgres, DriverSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for DB_DRIVER=%s", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
