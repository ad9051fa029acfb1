package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks slot hits by backend
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokedex_cache_hits_total",
			Help: "Total number of persistent slot hits",
		},
		[]string{"backend"}, // "memory", "sqlite", "redis"
	)

	// CacheMisses tracks slot misses by backend
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokedex_cache_misses_total",
			Help: "Total number of persistent slot misses",
		},
		[]string{"backend"},
	)

	// CacheSize tracks the size of the last written value by backend
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pokedex_cache_size_bytes",
			Help: "Size of the last value written to the persistent slot in bytes",
		},
		[]string{"backend"},
	)

	// CacheErrors tracks store operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokedex_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"backend", "operation"}, // "get", "set", "clear"
	)
)
