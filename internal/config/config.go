// Package config provides configuration for the application.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrDBUriNotSetInProduction is returned when DB_URI is not set in production. A production deployment must
	// never silently fall back to the local development database.
	ErrDBUriNotSetInProduction = errors.New("DB_URI must be set in production")
	// ErrInvalidLogLevel is returned when LOG_LEVEL is not one of debug, info, warn or error.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

const (
	// AppEnvironmentDefault is the default application environment.
	AppEnvironmentDefault = "development"
	// AppEnvironmentProduction is the production application environment.
	AppEnvironmentProduction = "production"
	// HostDefault is the default host to listen on. Can be an IP address or hostname.
	HostDefault = "0.0.0.0"
	// PortDefault is the default port to listen on.
	PortDefault = "3000"

	// DBDriverDefault is the default database driver. Currently, only sqlite is supported.
	DBDriverDefault = "sqlite"
	// DBURIDefault is the default database URI. Default is quizdesk.sqlite in the current directory.
	DBURIDefault = "file:quizdesk.sqlite?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	// DBMaxOpenConnsDefault is the default maximum number of open database connections.
	DBMaxOpenConnsDefault = 10
	// DBMaxIdleConnsDefault is the default maximum number of idle database connections.
	DBMaxIdleConnsDefault = 10
	// DBConnMaxLifetimeDefault is the default maximum lifetime of a database connection.
	DBConnMaxLifetimeDefault = 5 * time.Minute

	// PublicDirDefault is the directory static files are served from.
	PublicDirDefault = "public"
	// CORSAllowedOriginsDefault allows every origin.
	CORSAllowedOriginsDefault = "*"
)

// Config represents the application configuration.
type Config struct {
	AppEnvironment string
	LogLevel       slog.Level

	Host string
	Port string

	DBDriver string
	DBURI    string

	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	PublicDir          string
	CORSAllowedOrigins []string
}

// IsProduction reports whether the application runs in production.
func (c *Config) IsProduction() bool {
	return c.AppEnvironment == AppEnvironmentProduction
}

// Parse parses environment variables into the config.
func Parse(getenv func(string) string) (*Config, error) {
	c := Config{
		AppEnvironment:     AppEnvironmentDefault,
		Host:               HostDefault,
		Port:               PortDefault,
		DBDriver:           DBDriverDefault,
		DBURI:              DBURIDefault,
		DBMaxOpenConns:     DBMaxOpenConnsDefault,
		DBMaxIdleConns:     DBMaxIdleConnsDefault,
		DBConnMaxLifetime:  DBConnMaxLifetimeDefault,
		PublicDir:          PublicDirDefault,
		CORSAllowedOrigins: []string{CORSAllowedOriginsDefault},
	}
	// Overwrite defaults with environment variables.
	if val := getenv("APP_ENV"); val != "" {
		c.AppEnvironment = val
	}
	if val := getenv("HOST"); val != "" {
		c.Host = val
	}
	if val := getenv("PORT"); val != "" {
		c.Port = val
	}
	if val := getenv("DB_URI"); val != "" {
		c.DBURI = val
	}
	if val := getenv("PUBLIC_DIR"); val != "" {
		c.PublicDir = val
	}
	if val := getenv("CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORSAllowedOrigins = splitList(val)
	}

	c.LogLevel = slog.LevelDebug
	if c.IsProduction() {
		c.LogLevel = slog.LevelInfo
	}

	// Strict validation for types
	if val := getenv("LOG_LEVEL"); val != "" {
		var err error
		c.LogLevel, err = parseLevel(val)
		if err != nil {
			return nil, err
		}
	}

	if val := getenv("DB_MAX_OPEN_CONNS"); val != "" {
		var err error
		c.DBMaxOpenConns, err = strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %q, err: %w", val, err)
		}
	}

	if val := getenv("DB_MAX_IDLE_CONNS"); val != "" {
		var err error
		c.DBMaxIdleConns, err = strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %q, err: %w", val, err)
		}
	}

	if val := getenv("DB_CONN_MAX_LIFETIME"); val != "" {
		var err error
		c.DBConnMaxLifetime, err = time.ParseDuration(val)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %q, err: %w", val, err)
		}
	}

	// Mandatory fields
	if c.IsProduction() && getenv("DB_URI") == "" {
		return nil, ErrDBUriNotSetInProduction
	}

	return &c, nil
}

func parseLevel(val string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(val)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, val)
	}

	return level, nil
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}

	return list
}
