// Package metrics provides the Prometheus registry and the HTTP serving
// metrics for the Pokedex browser. Domain metrics are defined in their
// respective packages (client, cache, catalog, detail, ratelimit) to keep
// packages free of circular dependencies; this package documents them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokedex_http_requests_total",
		Help: "Total HTTP requests served by route and status",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pokedex_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// ObserveHTTP records one served request. route is the matched route
// pattern, never the raw path, so label cardinality stays bounded.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - pokedex_requests_total{endpoint, status} (Counter): PokeAPI requests by endpoint and HTTP status
//   - pokedex_request_duration_seconds{endpoint} (Histogram): PokeAPI request duration
//   - pokedex_errors_total{class} (Counter): Errors by class (client, server, network, decode)
//
// Rate Limit Metrics (pkg/ratelimit):
//   - pokedex_rate_limit_waits_total (Counter): Requests that waited noticeably for a token
//   - pokedex_rate_limit_wait_seconds (Histogram): Token wait time
//   - pokedex_rate_limit_rejects_total (Counter): Requests abandoned while waiting
//
// Cache Metrics (pkg/cache):
//   - pokedex_cache_hits_total{backend} (Counter): Slot hits (memory, sqlite, redis)
//   - pokedex_cache_misses_total{backend} (Counter): Slot misses
//   - pokedex_cache_size_bytes{backend} (Gauge): Size of the last written slot value
//   - pokedex_cache_errors_total{backend, operation} (Counter): Store errors
//
// Catalog Metrics (pkg/catalog):
//   - pokedex_catalog_items (Gauge): Entities currently loaded
//   - pokedex_catalog_loads_total{result} (Counter): Loads by result (cache, fetch, error)
//
// Detail Metrics (pkg/detail):
//   - pokedex_detail_loads_total{result} (Counter): Detail loads by result (loaded, error)
//
// HTTP Metrics (this package):
//   - pokedex_http_requests_total{method, route, status} (Counter)
//   - pokedex_http_request_duration_seconds{method, route} (Histogram)
//
// Example Prometheus Queries:
//
//   # Slot Hit Rate
//   sum(rate(pokedex_cache_hits_total[5m])) /
//   (sum(rate(pokedex_cache_hits_total[5m])) + sum(rate(pokedex_cache_misses_total[5m])))
//
//   # PokeAPI Error Rate
//   rate(pokedex_errors_total[5m])
//
//   # P95 PokeAPI Latency
//   histogram_quantile(0.95, rate(pokedex_request_duration_seconds_bucket[5m]))
//
//   # Failed Catalog Loads
//   increase(pokedex_catalog_loads_total{result="error"}[1h])
