/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package riotapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gamebuddyapp/teeto/internal/libinfo"
)

// MetricsCollector collects statistics of the request scheduling.
type MetricsCollector interface {
	// SetQueueDepth sets the number of items pending in the region queue of the given priority.
	SetQueueDepth(region string, priority Priority, depth int)
	// ObserveGateWait observes the combined wait returned by the gates before a dispatch.
	ObserveGateWait(region string, wait time.Duration)
	// IncRetries increments the number of retries caused by the given outcome.
	IncRetries(region string, outcome Outcome)
	// IncLimitAdjustments increments the number of method limit changes reported by the server.
	IncLimitAdjustments(region, group string)
	// IncFailures increments the number of terminally failed requests.
	IncFailures(region string, outcome Outcome)
}

// PrometheusMetrics is a Prometheus implementation of MetricsCollector.
type PrometheusMetrics struct {
	QueueDepth       *prometheus.GaugeVec
	GateWait         *prometheus.HistogramVec
	RetriesTotal     *prometheus.CounterVec
	AdjustmentsTotal *prometheus.CounterVec
	FailuresTotal    *prometheus.CounterVec
}

var _ MetricsCollector = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates a new PrometheusMetrics.
// Namespace is prepended to all metric names, constLabels are applied to all metrics (both may be empty).
func NewPrometheusMetrics(namespace string, constLabels prometheus.Labels) *PrometheusMetrics {
	constLabels = libinfo.AddPrometheusLibVersionLabel(constLabels)
	return &PrometheusMetrics{
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "riotapi_queue_depth",
			Help:        "Number of requests pending in the region queues.",
			ConstLabels: constLabels,
		}, []string{"region", "priority"}),
		GateWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "riotapi_gate_wait_seconds",
			Help:        "A histogram of the waits required by the rate limit gates before dispatch.",
			Buckets:     []float64{0, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			ConstLabels: constLabels,
		}, []string{"region"}),
		RetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "riotapi_retries_total",
			Help:        "Number of retried requests.",
			ConstLabels: constLabels,
		}, []string{"region", "outcome"}),
		AdjustmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "riotapi_limit_adjustments_total",
			Help:        "Number of method limit changes reported by the server.",
			ConstLabels: constLabels,
		}, []string{"region", "group"}),
		FailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "riotapi_failures_total",
			Help:        "Number of terminally failed requests.",
			ConstLabels: constLabels,
		}, []string{"region", "outcome"}),
	}
}

// MustRegister does registration of metrics collector in Prometheus and panics if any error occurs.
func (pm *PrometheusMetrics) MustRegister() {
	prometheus.MustRegister(pm.QueueDepth, pm.GateWait, pm.RetriesTotal, pm.AdjustmentsTotal, pm.FailuresTotal)
}

// Unregister cancels registration of metrics collector in Prometheus.
func (pm *PrometheusMetrics) Unregister() {
	prometheus.Unregister(pm.QueueDepth)
	prometheus.Unregister(pm.GateWait)
	prometheus.Unregister(pm.RetriesTotal)
	prometheus.Unregister(pm.AdjustmentsTotal)
	prometheus.Unregister(pm.FailuresTotal)
}

// SetQueueDepth implements MetricsCollector.
func (pm *PrometheusMetrics) SetQueueDepth(region string, priority Priority, depth int) {
	pm.QueueDepth.WithLabelValues(region, priority.String()).Set(float64(depth))
}

// ObserveGateWait implements MetricsCollector.
func (pm *PrometheusMetrics) ObserveGateWait(region string, wait time.Duration) {
	pm.GateWait.WithLabelValues(region).Observe(wait.Seconds())
}

// IncRetries implements MetricsCollector.
func (pm *PrometheusMetrics) IncRetries(region string, outcome Outcome) {
	pm.RetriesTotal.WithLabelValues(region, outcome.String()).Inc()
}

// IncLimitAdjustments implements MetricsCollector.
func (pm *PrometheusMetrics) IncLimitAdjustments(region, group string) {
	pm.AdjustmentsTotal.WithLabelValues(region, group).Inc()
}

// IncFailures implements MetricsCollector.
func (pm *PrometheusMetrics) IncFailures(region string, outcome Outcome) {
	pm.FailuresTotal.WithLabelValues(region, outcome.String()).Inc()
}

type disabledMetrics struct{}

func (disabledMetrics) SetQueueDepth(string, Priority, int)   {}
func (disabledMetrics) ObserveGateWait(string, time.Duration) {}
func (disabledMetrics) IncRetries(string, Outcome)            {}
func (disabledMetrics) IncLimitAdjustments(string, string)    {}
func (disabledMetrics) IncFailures(string, Outcome)           {}
