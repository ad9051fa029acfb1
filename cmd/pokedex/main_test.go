package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/pokedex-browser/internal/config"
	"github.com/Sternrassler/pokedex-browser/internal/testutil"
	"github.com/Sternrassler/pokedex-browser/pkg/catalog"
)

func testConfig(t *testing.T, mock *testutil.MockPokeAPI) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Port = "0"
	cfg.API.HomeURL = mock.HomeURL()
	cfg.API.DetailURL = mock.URL()
	cfg.API.RateLimit = 0
	cfg.Catalog.Limit = 12
	cfg.Store.Kind = config.StoreSQLite
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "pokedex.db")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return &cfg
}

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"memory", func(c *config.Config) { c.Store.Kind = config.StoreMemory }, false},
		{"sqlite", func(c *config.Config) {
			c.Store.Kind = config.StoreSQLite
			c.Store.SQLitePath = filepath.Join(t.TempDir(), "slot.db")
		}, false},
		{"unreachable redis", func(c *config.Config) {
			c.Store.Kind = config.StoreRedis
			c.Store.RedisURL = "127.0.0.1:1"
		}, true},
		{"unknown", func(c *config.Config) { c.Store.Kind = "tape" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			store, closeStore, err := openStore(ctx, &cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("openStore() error = %v", err)
			}
			defer closeStore()

			if err := store.Set(ctx, "k", []byte("v")); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := store.Get(ctx, "k")
			if err != nil || string(got) != "v" {
				t.Errorf("Get() = %q, %v", got, err)
			}
		})
	}
}

func TestBuild_ServesCatalog(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	cfg := testConfig(t, mock)

	a, err := build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build() error = %v", err)
	}
	defer a.close()

	if err := a.catalog.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest("GET", "/?page=2", nil))
	body, _ := io.ReadAll(w.Result().Body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(string(body), "#011") || !strings.Contains(string(body), "#012") {
		t.Error("page 2 should list entities 11 and 12")
	}
}

func TestBuild_RestartUsesPersistedSlot(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	cfg := testConfig(t, mock)

	first, err := build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build() error = %v", err)
	}
	if err := first.catalog.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	first.close()

	if got := mock.GetPokemonCount(); got != 12 {
		t.Fatalf("first load requests = %d, want 12", got)
	}
	mock.Reset()

	second, err := build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build() error = %v", err)
	}
	defer second.close()

	if err := second.catalog.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if second.catalog.State() != catalog.StateLoaded || second.catalog.Len() != 12 {
		t.Errorf("state = %v len = %d", second.catalog.State(), second.catalog.Len())
	}
	if got := mock.GetRequestCount(); got != 0 {
		t.Errorf("restart made %d API requests, want 0", got)
	}
}

func TestRun_GracefulShutdown(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	cfg := testConfig(t, mock)
	cfg.Store.Kind = config.StoreMemory

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run() error = %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("run() did not return after cancellation")
	}
}
