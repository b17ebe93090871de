// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "travelmap_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2500},
	}, []string{"route", "status"})
	RendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "travelmap_renders_total",
		Help: "Total renders by kind (countries, proximity, fog, voronoi)",
	}, []string{"kind"})
	TileCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "travelmap_tile_cache_hits_total",
		Help: "Total tile cache hits",
	})
	TileCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "travelmap_tile_cache_misses_total",
		Help: "Total tile cache misses",
	})
	ReloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "travelmap_reloads_total",
		Help: "Dataset reloads by outcome (ok, failed, stale)",
	}, []string{"outcome"})
	PatternsConstructed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "travelmap_patterns_constructed",
		Help: "Stripe patterns constructed by the current resolver",
	})
)

func init() {
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(RendersTotal)
	prometheus.MustRegister(TileCacheHitsTotal)
	prometheus.MustRegister(TileCacheMissesTotal)
	prometheus.MustRegister(ReloadsTotal)
	prometheus.MustRegister(PatternsConstructed)
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler { return promhttp.Handler() }
