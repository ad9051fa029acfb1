package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/pokedex-browser/internal/config"
	"github.com/Sternrassler/pokedex-browser/internal/web"
	"github.com/Sternrassler/pokedex-browser/pkg/cache"
	"github.com/Sternrassler/pokedex-browser/pkg/catalog"
	"github.com/Sternrassler/pokedex-browser/pkg/client"
	"github.com/Sternrassler/pokedex-browser/pkg/detail"
	"github.com/Sternrassler/pokedex-browser/pkg/logging"
	"github.com/Sternrassler/pokedex-browser/pkg/notify"
	"github.com/Sternrassler/pokedex-browser/pkg/pagination"
	"github.com/Sternrassler/pokedex-browser/pkg/ratelimit"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv(config.FileEnv), "TOML config file")
	flag.Parse()

	logging.Setup(logging.DefaultConfig())

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Setup(logging.Config{
		Level:   cfg.LogLevel(),
		Pretty:  cfg.Log.Pretty,
		Service: "pokedex-browser",
		Output:  os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// app is the wired service.
type app struct {
	handler http.Handler
	catalog *catalog.Catalog
	close   func() error
}

// build wires store, client, views and HTTP handler from cfg.
func build(ctx context.Context, cfg *config.Config) (*app, error) {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	clientCfg := client.DefaultConfig(cfg.API.UserAgent)
	clientCfg.HomeURL = cfg.API.HomeURL
	clientCfg.DetailURL = cfg.API.DetailURL
	clientCfg.Timeout = cfg.API.Timeout.Duration
	clientCfg.Limiter = ratelimit.New(cfg.API.RateLimit, cfg.API.Burst)

	api, err := client.New(clientCfg)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("create pokeapi client: %w", err)
	}

	toasts := notify.NewCenter(notify.DefaultLifetime)

	catCfg := catalog.DefaultConfig()
	catCfg.Limit = cfg.Catalog.Limit
	catCfg.PageSize = cfg.Catalog.PageSize
	catCfg.Batch = pagination.DefaultConfig()
	if cfg.API.MaxConcurrency > 0 {
		catCfg.Batch.MaxConcurrency = cfg.API.MaxConcurrency
	}
	catCfg.Batch.Timeout = cfg.API.Timeout.Duration

	slot := cache.NewSlot[[]catalog.Summary](store, cache.SlotKey, cfg.Store.TTL.Duration)
	cat, err := catalog.New(slot, api, toasts, catCfg)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("create catalog: %w", err)
	}

	details := detail.NewLoader(api, toasts, detail.Config{
		Locale:        cfg.Catalog.Locale,
		SpriteBaseURL: cfg.API.SpriteURL,
	})

	srv, err := web.New(cat, details, toasts, web.Config{
		SpriteURL:   cfg.API.SpriteURL,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("create web server: %w", err)
	}

	return &app{handler: srv, catalog: cat, close: closeStore}, nil
}

// openStore opens the configured slot backend.
func openStore(ctx context.Context, cfg *config.Config) (cache.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Kind {
	case config.StoreMemory:
		return cache.NewMemoryStore(), noop, nil

	case config.StoreSQLite:
		store, err := cache.NewSQLiteStore(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Info().Str("path", cfg.Store.SQLitePath).Msg("Using SQLite store")
		return store, store.Close, nil

	case config.StoreRedis:
		opts, err := cfg.RedisOptions()
		if err != nil {
			return nil, nil, err
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
		}
		log.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
		return cache.NewRedisStore(redisClient, cache.DefaultRedisPrefix), redisClient.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config) error {
	a, err := build(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	// The list renders its loading state until this finishes.
	go func() {
		if err := a.catalog.Load(ctx); err != nil {
			log.Error().Err(err).Msg("Initial catalog load failed")
		}
	}()

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Int("limit", cfg.Catalog.Limit).
			Str("store", cfg.Store.Kind).
			Msg("Starting Pokedex server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
