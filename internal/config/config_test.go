package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE_DRIVER", "DB_PATH", "DATABASE_URL", "LOG_LEVEL",
		"LOG_FORMAT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "DEFAULT_TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 8080 || cfg.StorageDriver != DriverSQLite || cfg.DBPath == "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LogFormat != "text" || cfg.LogLevel != "info" || cfg.DefaultTimezone != "UTC" {
		t.Fatalf("unexpected logging defaults: %+v", cfg)
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/tripsync")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "oops")
	t.Setenv("DEFAULT_TIMEZONE", "Europe/Lisbon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9090 || cfg.StorageDriver != DriverPostgres || cfg.LogLevel != "debug" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("unexpected rps %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 20 {
		t.Fatalf("expected default burst for unparseable value, got %d", cfg.RateLimitBurst)
	}
}

func TestValidateErrors(t *testing.T) {
	valid := Config{
		Port:            8080,
		StorageDriver:   DriverSQLite,
		DBPath:          "x.db",
		LogLevel:        "info",
		LogFormat:       "text",
		DefaultTimezone: "UTC",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = 0 }},
		{"unknown driver", func(c *Config) { c.StorageDriver = "mongo" }},
		{"sqlite without path", func(c *Config) { c.DBPath = "" }},
		{"postgres without url", func(c *Config) { c.StorageDriver = DriverPostgres }},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"negative rps", func(c *Config) { c.RateLimitRPS = -1 }},
		{"bad timezone", func(c *Config) { c.DefaultTimezone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %+v", cfg)
			}
		})
	}
}
