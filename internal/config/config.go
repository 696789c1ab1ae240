// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	devJWTSecret     = "dev_fallback_jwt_secret"
	devSessionSecret = "dev_fallback_secret"
)

// Config holds every knob of the server.
type Config struct {
	Env             string
	Port            string
	DBDriver        string
	DBDSN           string
	JWTSecret       string
	JWTTTL          time.Duration
	SessionSecret   string
	RedisAddr       string
	LogLevel        string
	ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenv(key string, def time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// Load collects configuration from the environment with defaults.
func Load() Config {
	env := getenv("APP_ENV", "dev")
	cfg := Config{
		Env:             env,
		Port:            getenv("APP_PORT", "8080"),
		DBDriver:        strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
		DBDSN:           getenv("DB_DSN", "backoffice.db"),
		JWTSecret:       getenv("JWT_SECRET", ""),
		JWTTTL:          durenv("JWT_TTL", 30*24*time.Hour),
		SessionSecret:   getenv("SESSION_SECRET", ""),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		ShutdownTimeout: time.Duration(atoienv("SHUTDOWN_TIMEOUT", 15)) * time.Second,
	}
	if env == "dev" {
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = devJWTSecret
		}
		if cfg.SessionSecret == "" {
			cfg.SessionSecret = devSessionSecret
		}
	}
	return cfg
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("config: unknown DB_DRIVER %q", c.DBDriver))
	}
	if c.DBDSN == "" {
		errs = append(errs, errors.New("config: DB_DSN is empty"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("config: JWT_SECRET is empty"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("config: SESSION_SECRET is empty"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
