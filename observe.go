package tagrank

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// engineMetrics are registered only when WithPrometheus is given.
type engineMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	modes      *prometheus.CounterVec
	products   prometheus.Gauge
}

func newEngineMetrics(reg prometheus.Registerer) (*engineMetrics, error) {
	m := &engineMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tagrank",
			Subsystem: "engine",
			Name:      "operations_total",
			Help:      "Engine operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tagrank",
			Subsystem: "engine",
			Name:      "operation_duration_seconds",
			Help:      "Engine operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		modes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tagrank",
			Subsystem: "engine",
			Name:      "searches_total",
			Help:      "Searches by the ranking mode they ended in.",
		}, []string{"mode"}),
		products: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tagrank",
			Subsystem: "engine",
			Name:      "catalog_products",
			Help:      "Products in the engine's catalog snapshot.",
		}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.modes); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.products); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or adopts the one already registered,
// so several engines can share a registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("tagrank: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("tagrank: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

type observer struct {
	logger  *slog.Logger
	metrics *engineMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newEngineMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// observe records one operation. attrs are extra slog key/value pairs.
func (o *observer) observe(op string, start time.Time, err error, attrs ...any) {
	dur := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	args := append([]any{"op", op, "duration", dur}, attrs...)
	if err != nil {
		o.logger.Warn("operation failed", append(args, "error", err)...)
		return
	}
	o.logger.Debug("operation completed", args...)
}

func (o *observer) searched(mode Mode) {
	if o.metrics != nil {
		o.metrics.modes.WithLabelValues(string(mode)).Inc()
	}
}

func (o *observer) catalogSize(n int) {
	if o.metrics != nil {
		o.metrics.products.Set(float64(n))
	}
}
