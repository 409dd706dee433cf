package config_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	. "github.com/starquake/quizdesk/internal/config"
)

func testEnv() map[string]string {
	return map[string]string{
		"APP_ENV":              "test",
		"HOST":                 "localhost",
		"PORT":                 "5432",
		"DB_URI":               "file:test.sqlite",
		"DB_MAX_OPEN_CONNS":    "100",
		"DB_MAX_IDLE_CONNS":    "200",
		"DB_CONN_MAX_LIFETIME": "10m",
		"PUBLIC_DIR":           "web/public",
		"CORS_ALLOWED_ORIGINS": "http://localhost:3000, https://quiz.example.com",
		"LOG_LEVEL":            "warn",
	}
}

func getenvFailure(failureKey, value string) func(string) string {
	envs := testEnv()

	return func(key string) string {
		if key == failureKey {
			return value
		}

		return envs[key]
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("parse config", func(t *testing.T) {
		t.Parallel()

		envs := testEnv()
		c, err := Parse(func(key string) string { return envs[key] })
		if err != nil {
			t.Fatalf("error parsing config: %v", err)
		}

		want := &Config{
			AppEnvironment:     "test",
			LogLevel:           slog.LevelWarn,
			Host:               "localhost",
			Port:               "5432",
			DBDriver:           DBDriverDefault,
			DBURI:              "file:test.sqlite",
			DBMaxOpenConns:     100,
			DBMaxIdleConns:     200,
			DBConnMaxLifetime:  10 * time.Minute,
			PublicDir:          "web/public",
			CORSAllowedOrigins: []string{"http://localhost:3000", "https://quiz.example.com"},
		}
		if diff := cmp.Diff(want, c); diff != "" {
			t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("fallback values", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			key    string
			wantFn func(c Config) bool
		}{
			{
				name:   "fallback App Environment",
				key:    "APP_ENV",
				wantFn: func(c Config) bool { return c.AppEnvironment == AppEnvironmentDefault },
			},
			{
				name:   "fallback Host",
				key:    "HOST",
				wantFn: func(c Config) bool { return c.Host == HostDefault },
			},
			{
				name:   "fallback Port",
				key:    "PORT",
				wantFn: func(c Config) bool { return c.Port == PortDefault },
			},
			{
				name:   "fallback DB URI",
				key:    "DB_URI",
				wantFn: func(c Config) bool { return c.DBURI == DBURIDefault },
			},
			{
				name:   "fallback Max Open Connections",
				key:    "DB_MAX_OPEN_CONNS",
				wantFn: func(c Config) bool { return c.DBMaxOpenConns == DBMaxOpenConnsDefault },
			},
			{
				name:   "fallback Max Idle Connections",
				key:    "DB_MAX_IDLE_CONNS",
				wantFn: func(c Config) bool { return c.DBMaxIdleConns == DBMaxIdleConnsDefault },
			},
			{
				name:   "fallback Connection Max Lifetime",
				key:    "DB_CONN_MAX_LIFETIME",
				wantFn: func(c Config) bool { return c.DBConnMaxLifetime == DBConnMaxLifetimeDefault },
			},
			{
				name:   "fallback Public Dir",
				key:    "PUBLIC_DIR",
				wantFn: func(c Config) bool { return c.PublicDir == PublicDirDefault },
			},
			{
				name: "fallback CORS Allowed Origins",
				key:  "CORS_ALLOWED_ORIGINS",
				wantFn: func(c Config) bool {
					return len(c.CORSAllowedOrigins) == 1 && c.CORSAllowedOrigins[0] == CORSAllowedOriginsDefault
				},
			},
			{
				name:   "fallback Log Level",
				key:    "LOG_LEVEL",
				wantFn: func(c Config) bool { return c.LogLevel == slog.LevelDebug },
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				c, err := Parse(getenvFailure(tc.key, ""))
				if err != nil {
					t.Fatalf("error parsing config: %v", err)
				}
				if !tc.wantFn(*c) {
					t.Errorf("fallback for %s not applied, got %+v", tc.key, *c)
				}
			})
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			key   string
			value string
		}{
			{key: "DB_MAX_OPEN_CONNS", value: "many"},
			{key: "DB_MAX_IDLE_CONNS", value: "few"},
			{key: "DB_CONN_MAX_LIFETIME", value: "forever"},
			{key: "LOG_LEVEL", value: "loud"},
		}

		for _, tc := range tests {
			t.Run(tc.key, func(t *testing.T) {
				t.Parallel()

				if _, err := Parse(getenvFailure(tc.key, tc.value)); err == nil {
					t.Errorf("expected error for %s=%q", tc.key, tc.value)
				}
			})
		}
	})

	t.Run("invalid log level error", func(t *testing.T) {
		t.Parallel()

		_, err := Parse(getenvFailure("LOG_LEVEL", "loud"))
		if got, want := err, ErrInvalidLogLevel; !errors.Is(got, want) {
			t.Errorf("got error %v, want %v", got, want)
		}
	})

	t.Run("DB URI not set in production", func(t *testing.T) {
		t.Parallel()

		getenv := func(key string) string {
			envs := map[string]string{
				"APP_ENV": "production",
			}

			return envs[key]
		}

		_, err := Parse(getenv)
		if got, want := err, ErrDBUriNotSetInProduction; !errors.Is(got, want) {
			t.Fatalf("got error %v, want %v", got, want)
		}
	})

	t.Run("production defaults", func(t *testing.T) {
		t.Parallel()

		getenv := func(key string) string {
			envs := map[string]string{
				"APP_ENV": "production",
				"DB_URI":  "file:prod.sqlite",
			}

			return envs[key]
		}

		c, err := Parse(getenv)
		if err != nil {
			t.Fatalf("error parsing config: %v", err)
		}
		if !c.IsProduction() {
			t.Error("IsProduction() = false, want true")
		}
		if got, want := c.LogLevel, slog.LevelInfo; got != want {
			t.Errorf("LogLevel = %v, want %v", got, want)
		}
	})
}
