package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/pokedex-browser/pkg/logging"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pokedex.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Catalog.Limit != 151 {
		t.Errorf("Limit = %d, want 151", cfg.Catalog.Limit)
	}
	if cfg.Catalog.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.Catalog.PageSize)
	}
	if cfg.Store.TTL.Duration != 0 {
		t.Errorf("TTL = %s, want 0 (never expires)", cfg.Store.TTL)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
[server]
port = "9090"

[api]
timeout = "5s"
rate_limit = 0.0

[catalog]
limit = 30
page_size = 6
locale = "de"

[store]
kind = "memory"
ttl = "24h"

[log]
level = "debug"
pretty = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.API.Timeout.Duration != 5*time.Second {
		t.Errorf("Timeout = %s", cfg.API.Timeout)
	}
	if cfg.API.RateLimit != 0 {
		t.Errorf("RateLimit = %g, want 0", cfg.API.RateLimit)
	}
	if cfg.Catalog.Limit != 30 || cfg.Catalog.PageSize != 6 || cfg.Catalog.Locale != "de" {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	if cfg.Store.Kind != StoreMemory || cfg.Store.TTL.Duration != 24*time.Hour {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.LogLevel() != logging.LevelDebug || !cfg.Log.Pretty {
		t.Errorf("Log = %+v", cfg.Log)
	}
	// Untouched keys keep their defaults.
	if cfg.API.HomeURL != Default().API.HomeURL {
		t.Errorf("HomeURL = %q", cfg.API.HomeURL)
	}
}

func TestLoad_FileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[catalog]\nlimitt = 5\n"},
		{"bad duration", "[store]\nttl = \"soon\"\n"},
		{"syntax", "[catalog\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "[catalog]\nlimit = 30\n")

	t.Setenv("LIMIT", "12")
	t.Setenv("PAGE_SIZE", "4")
	t.Setenv("PORT", "7070")
	t.Setenv("STORE", "memory")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("RATE_LIMIT", "2.5")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("LOCALE", "fr")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Catalog.Limit != 12 || cfg.Catalog.PageSize != 4 {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Store.Kind != StoreMemory || cfg.Store.TTL.Duration != time.Hour {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.API.RateLimit != 2.5 {
		t.Errorf("RateLimit = %g", cfg.API.RateLimit)
	}
	if !cfg.Log.Pretty || cfg.Catalog.Locale != "fr" {
		t.Errorf("Log/Locale not applied: %+v %q", cfg.Log, cfg.Catalog.Locale)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
}

func TestLoad_EnvParseErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"LIMIT", "many"},
		{"PAGE_SIZE", "1.5"},
		{"LOG_PRETTY", "kinda"},
		{"CACHE_TTL", "forever"},
		{"RATE_LIMIT", "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error = %v, want mention of %s", err, tt.key)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{"zero limit", func(c *Config) { c.Catalog.Limit = 0 }, "catalog limit must be > 0"},
		{"negative page size", func(c *Config) { c.Catalog.PageSize = -1 }, "page size must be > 0"},
		{"unknown store", func(c *Config) { c.Store.Kind = "localstorage" }, "unknown store kind"},
		{"sqlite without path", func(c *Config) { c.Store.SQLitePath = "" }, "requires sqlite_path"},
		{"redis without url", func(c *Config) { c.Store.Kind = StoreRedis; c.Store.RedisURL = "" }, "requires redis_url"},
		{"bad redis url", func(c *Config) { c.Store.Kind = StoreRedis; c.Store.RedisURL = "http://nope" }, "parse redis url"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "unknown log level"},
		{"negative ttl", func(c *Config) { c.Store.TTL.Duration = -time.Second }, "cache ttl"},
		{"negative rate", func(c *Config) { c.API.RateLimit = -1 }, "rate limit"},
		{"zero timeout", func(c *Config) { c.API.Timeout.Duration = 0 }, "api timeout"},
		{"empty locale", func(c *Config) { c.Catalog.Locale = "" }, "locale is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.errorMsg)
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("error = %q, want containing %q", err.Error(), tt.errorMsg)
			}
		})
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Catalog.Limit = 0
	cfg.Catalog.PageSize = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "catalog limit") || !strings.Contains(err.Error(), "page size") {
		t.Errorf("error = %q, want both problems reported", err.Error())
	}
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		url      string
		wantAddr string
		wantDB   int
	}{
		{"localhost:6379", "localhost:6379", 0},
		{"redis://cache.internal:6380/2", "cache.internal:6380", 2},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			cfg := Default()
			cfg.Store.RedisURL = tt.url

			opts, err := cfg.RedisOptions()
			if err != nil {
				t.Fatalf("RedisOptions() error = %v", err)
			}
			if opts.Addr != tt.wantAddr || opts.DB != tt.wantDB {
				t.Errorf("opts = {Addr:%q DB:%d}, want {%q %d}", opts.Addr, opts.DB, tt.wantAddr, tt.wantDB)
			}
		})
	}
}
