package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	catalogItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pokedex_catalog_items",
		Help: "Number of entities in the loaded catalog",
	})

	catalogLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokedex_catalog_loads_total",
		Help: "Catalog load outcomes by source",
	}, []string{"result"}) // "cache", "fetch", "error"
)
