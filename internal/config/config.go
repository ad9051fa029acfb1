// Package config loads the service configuration: built-in defaults, then an
// optional TOML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/pokedex-browser/pkg/logging"
	"github.com/pelletier/go-toml/v2"
	"github.com/redis/go-redis/v9"
)

// FileEnv names the environment variable holding the TOML file path.
const FileEnv = "POKEDEX_CONFIG"

// Store kinds.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Duration is a time.Duration written as a Go duration string ("30s", "24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the complete service configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	API     APIConfig     `toml:"api"`
	Catalog CatalogConfig `toml:"catalog"`
	Store   StoreConfig   `toml:"store"`
	Log     LogConfig     `toml:"log"`
}

type ServerConfig struct {
	Port        string   `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

type APIConfig struct {
	HomeURL        string   `toml:"home_url"`
	DetailURL      string   `toml:"detail_url"`
	SpriteURL      string   `toml:"sprite_url"`
	UserAgent      string   `toml:"user_agent"`
	Timeout        Duration `toml:"timeout"`
	RateLimit      float64  `toml:"rate_limit"`
	Burst          int      `toml:"burst"`
	MaxConcurrency int      `toml:"max_concurrency"`
}

type CatalogConfig struct {
	Limit    int    `toml:"limit"`
	PageSize int    `toml:"page_size"`
	Locale   string `toml:"locale"`
}

type StoreConfig struct {
	Kind       string   `toml:"kind"`
	SQLitePath string   `toml:"sqlite_path"`
	RedisURL   string   `toml:"redis_url"`
	TTL        Duration `toml:"ttl"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:        "8080",
			CORSOrigins: []string{"http://localhost:*"},
		},
		API: APIConfig{
			HomeURL:        "https://pokeapi.co/api/v2/pokemon/",
			DetailURL:      "https://pokeapi.co/api/v2",
			SpriteURL:      "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon",
			UserAgent:      "pokedex-browser/0.1.0",
			Timeout:        Duration{15 * time.Second},
			RateLimit:      20,
			Burst:          10,
			MaxConcurrency: 10,
		},
		Catalog: CatalogConfig{
			Limit:    151,
			PageSize: 10,
			Locale:   "en",
		},
		Store: StoreConfig{
			Kind:       StoreSQLite,
			SQLitePath: "./pokedex.db",
			RedisURL:   "localhost:6379",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path (if
// path is not empty) and the environment, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) decodeFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	dec := toml.NewDecoder(file)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from environment variables that are set.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	str("PORT", &c.Server.Port)
	str("HOME_URL", &c.API.HomeURL)
	str("DETAIL_URL", &c.API.DetailURL)
	str("SPRITE_URL", &c.API.SpriteURL)
	str("USER_AGENT", &c.API.UserAgent)
	integer("LIMIT", &c.Catalog.Limit)
	integer("PAGE_SIZE", &c.Catalog.PageSize)
	integer("MAX_CONCURRENCY", &c.API.MaxConcurrency)
	str("LOCALE", &c.Catalog.Locale)
	str("STORE", &c.Store.Kind)
	str("SQLITE_PATH", &c.Store.SQLitePath)
	str("REDIS_URL", &c.Store.RedisURL)
	str("LOG_LEVEL", &c.Log.Level)

	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v, ok := lookup("LOG_PRETTY"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("LOG_PRETTY: %w", err))
		} else {
			c.Log.Pretty = b
		}
	}
	if v, ok := lookup("CACHE_TTL"); ok && v != "" {
		if err := c.Store.TTL.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("CACHE_TTL: %w", err))
		}
	}
	if v, ok := lookup("RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("RATE_LIMIT: %w", err))
		} else {
			c.API.RateLimit = f
		}
	}

	return errors.Join(errs...)
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

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Catalog.Limit <= 0 {
		errs = append(errs, fmt.Errorf("catalog limit must be > 0 (got %d)", c.Catalog.Limit))
	}
	if c.Catalog.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page size must be > 0 (got %d)", c.Catalog.PageSize))
	}
	if c.Catalog.Locale == "" {
		errs = append(errs, errors.New("locale is required"))
	}
	if c.API.HomeURL == "" || c.API.DetailURL == "" {
		errs = append(errs, errors.New("home and detail urls are required"))
	}
	if c.API.MaxConcurrency < 0 {
		errs = append(errs, fmt.Errorf("max concurrency must be >= 0 (got %d)", c.API.MaxConcurrency))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate limit must be >= 0 (got %g)", c.API.RateLimit))
	}
	if c.API.Timeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("api timeout must be > 0 (got %s)", c.API.Timeout))
	}
	if c.Store.TTL.Duration < 0 {
		errs = append(errs, fmt.Errorf("cache ttl must be >= 0 (got %s)", c.Store.TTL))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}

	switch c.Store.Kind {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite store requires sqlite_path"))
		}
	case StoreRedis:
		if _, err := c.RedisOptions(); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store kind %q (want memory, sqlite or redis)", c.Store.Kind))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// RedisOptions returns client options for the Redis store. The URL may be a
// redis:// URL or a plain host:port address.
func (c *Config) RedisOptions() (*redis.Options, error) {
	if c.Store.RedisURL == "" {
		return nil, errors.New("redis store requires redis_url")
	}
	if strings.Contains(c.Store.RedisURL, "://") {
		opts, err := redis.ParseURL(c.Store.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: c.Store.RedisURL}, nil
}

// LogLevel returns the validated log level.
func (c *Config) LogLevel() logging.LogLevel {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return logging.LevelInfo
	}
	return level
}
