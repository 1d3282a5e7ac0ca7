package metrics

import "github.com/prometheus/client_golang/prometheus"

// Classifier Prometheus metrics.
var (
	ClassifierRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagrank",
			Name:      "classifier_requests_total",
			Help:      "Total number of classifier requests",
		},
		[]string{"provider", "model", "status"},
	)

	ClassifierRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tagrank",
			Name:      "classifier_request_duration_seconds",
			Help:      "Classifier request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	ClassifierTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagrank",
			Name:      "classifier_tokens_total",
			Help:      "Total classifier tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	ClassifierErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagrank",
			Name:      "classifier_errors_total",
			Help:      "Total classifier errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	ClassifierBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tagrank",
			Name:      "classifier_budget_tokens_remaining",
			Help:      "Remaining classifier token budget",
		},
		[]string{"provider", "period"},
	)

	PredictionCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagrank",
			Name:      "prediction_cache_total",
			Help:      "Prediction cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var classifierMetricsRegistered bool

// RegisterClassifierMetrics registers Prometheus classifier metrics. Must be called once from main.
func RegisterClassifierMetrics() {
	if classifierMetricsRegistered {
		return
	}
	prometheus.MustRegister(ClassifierRequestsTotal)
	prometheus.MustRegister(ClassifierRequestDuration)
	prometheus.MustRegister(ClassifierTokensTotal)
	prometheus.MustRegister(ClassifierErrorsTotal)
	prometheus.MustRegister(ClassifierBudgetTokensRemaining)
	prometheus.MustRegister(PredictionCacheTotal)
	classifierMetricsRegistered = true
}
