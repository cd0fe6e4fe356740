package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GatewayMetrics records gateway round trips and quantity debounce flushes.
type GatewayMetrics struct {
	duration       *prometheus.HistogramVec
	success        *prometheus.CounterVec
	failure        *prometheus.CounterVec
	debounceFlush  prometheus.Counter
	staleDiscarded prometheus.Counter
}

// NewGatewayMetrics registers the gateway metrics on the provided registerer.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	if reg == nil {
		return &GatewayMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_request_duration_seconds",
		Help:    "Duration of storefront gateway requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_request_success",
		Help: "Successful storefront gateway requests.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_request_failure",
		Help: "Failed storefront gateway requests.",
	}, []string{"operation"})
	debounceFlush := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quantity_debounce_flush_total",
		Help: "Quantity edits committed after the debounce window elapsed.",
	})
	staleDiscarded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_stale_discarded_total",
		Help: "Gateway responses discarded because a newer snapshot was already applied.",
	})
	reg.MustRegister(duration, success, failure, debounceFlush, staleDiscarded)
	return &GatewayMetrics{
		duration:       duration,
		success:        success,
		failure:        failure,
		debounceFlush:  debounceFlush,
		staleDiscarded: staleDiscarded,
	}
}

// ObserveDuration records the duration for the named operation.
func (g *GatewayMetrics) ObserveDuration(operation string, duration time.Duration) {
	if g == nil || g.duration == nil {
		return
	}
	g.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (g *GatewayMetrics) IncSuccess(operation string) {
	if g == nil || g.success == nil {
		return
	}
	g.success.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (g *GatewayMetrics) IncFailure(operation string) {
	if g == nil || g.failure == nil {
		return
	}
	g.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncDebounceFlush counts a debounced quantity commit.
func (g *GatewayMetrics) IncDebounceFlush() {
	if g == nil || g.debounceFlush == nil {
		return
	}
	g.debounceFlush.Inc()
}

// IncStaleDiscarded counts a response dropped by the sequence guard.
func (g *GatewayMetrics) IncStaleDiscarded() {
	if g == nil || g.staleDiscarded == nil {
		return
	}
	g.staleDiscarded.Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
