package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and catalog Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagrank",
			Name:      "searches_total",
			Help:      "Total searches by ranking mode",
		},
		[]string{"mode"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tagrank",
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds, classifier call included",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"mode"},
	)

	ClassifierFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagrank",
			Name:      "classifier_fallbacks_total",
			Help:      "Searches that fell back to substring ranking",
		},
		[]string{"reason"}, // "error" / "empty" / "disabled"
	)

	CatalogProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tagrank",
			Name:      "catalog_products",
			Help:      "Number of products in the active catalog snapshot",
		},
	)

	CatalogReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagrank",
			Name:      "catalog_reloads_total",
			Help:      "Catalog loads by source and status",
		},
		[]string{"source", "status"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search and catalog metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(ClassifierFallbacksTotal)
	prometheus.MustRegister(CatalogProducts)
	prometheus.MustRegister(CatalogReloadsTotal)
	searchMetricsRegistered = true
}
