/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const unknownLabel = "unknown"

// MetricsCollector is an interface for collecting metrics for client requests.
type MetricsCollector interface {
	// ObserveRequest is called once per round trip. Status is 0 when no response was received.
	// RateLimitType is the value of the X-Rate-Limit-Type header ("application", "method" or "service")
	// and is only meaningful for 429 responses.
	ObserveRequest(endpoint, host string, status int, rateLimitType string, elapsed time.Duration)
}

// PrometheusMetricsCollector is a Prometheus metrics collector.
type PrometheusMetricsCollector struct {
	// Durations is a histogram of the Riot API request durations by endpoint, host and status.
	Durations *prometheus.HistogramVec
	// RateLimited counts 429 responses by endpoint and the limit that was hit.
	RateLimited *prometheus.CounterVec
}

var _ MetricsCollector = (*PrometheusMetricsCollector)(nil)

// NewPrometheusMetricsCollector creates a new Prometheus metrics collector.
func NewPrometheusMetricsCollector(namespace string) *PrometheusMetricsCollector {
	return &PrometheusMetricsCollector{
		Durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_client_request_duration_seconds",
			Help:      "A histogram of the Riot API requests durations.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"endpoint", "host", "status"}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_client_rate_limited_total",
			Help:      "Number of Riot API responses with 429 status by limit type.",
		}, []string{"endpoint", "limit_type"}),
	}
}

func (p *PrometheusMetricsCollector) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Durations, p.RateLimited}
}

// MustRegister registers the Prometheus metrics.
func (p *PrometheusMetricsCollector) MustRegister() {
	prometheus.MustRegister(p.collectors()...)
}

// Unregister the Prometheus metrics.
func (p *PrometheusMetricsCollector) Unregister() {
	for _, c := range p.collectors() {
		prometheus.Unregister(c)
	}
}

// ObserveRequest implements MetricsCollector.
func (p *PrometheusMetricsCollector) ObserveRequest(
	endpoint, host string, status int, rateLimitType string, elapsed time.Duration,
) {
	p.Durations.WithLabelValues(endpoint, host, strconv.Itoa(status)).Observe(elapsed.Seconds())
	if status != http.StatusTooManyRequests {
		return
	}
	if rateLimitType == "" {
		rateLimitType = unknownLabel
	}
	p.RateLimited.WithLabelValues(endpoint, rateLimitType).Inc()
}

// MetricsRoundTripper is an HTTP transport that measures requests done.
type MetricsRoundTripper struct {
	// Delegate is the next RoundTripper in the chain.
	Delegate http.RoundTripper

	// Collector is a metrics collector.
	Collector MetricsCollector
}

// NewMetricsRoundTripper creates an HTTP transport that measures requests done.
func NewMetricsRoundTripper(delegate http.RoundTripper, collector MetricsCollector) *MetricsRoundTripper {
	return &MetricsRoundTripper{Delegate: delegate, Collector: collector}
}

// RoundTrip measures external requests done.
// Requests are labeled by the logical endpoint from the context, so URLs with IDs don't blow up cardinality.
func (rt *MetricsRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if rt.Collector == nil {
		return rt.Delegate.RoundTrip(r)
	}

	start := time.Now()
	resp, err := rt.Delegate.RoundTrip(r)
	elapsed := time.Since(start)

	var status int
	var limitType string
	if err == nil && resp != nil {
		status = resp.StatusCode
		limitType = resp.Header.Get(RateLimitTypeHeader)
	}
	endpoint := GetEndpointFromContext(r.Context())
	if endpoint == "" {
		endpoint = unknownLabel
	}
	rt.Collector.ObserveRequest(endpoint, r.URL.Host, status, limitType, elapsed)
	return resp, err
}
