/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package riotapi

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gamebuddyapp/teeto/catalog"
	"github.com/gamebuddyapp/teeto/httpclient"
	"github.com/gamebuddyapp/teeto/limiter"
	"github.com/gamebuddyapp/teeto/log"
	"github.com/gamebuddyapp/teeto/lrucache"
	"github.com/gamebuddyapp/teeto/store"
)

// Fetcher sends GET requests to the Riot API.
// Response must be returned for any HTTP status, error is expected only when no response was received.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, query url.Values) (*httpclient.Response, error)
}

// GateFactory creates rate limit gates. limiter.Factory is used by default.
type GateFactory interface {
	NewGate(key string, limit limiter.Limit, minSpacing time.Duration) (limiter.Gate, error)
}

// RateLimitEvent describes a 429 response.
type RateLimitEvent struct {
	Region   string
	Endpoint string
	URL      string
	Header   http.Header
}

// ExceededCallback is called on every 429 response.
// It's called from the region worker, so it should not block.
type ExceededCallback func(event RateLimitEvent)

// Option is a functional option for the Client.
type Option func(*clientOptions)

type clientOptions struct {
	logger           log.FieldLogger
	store            store.Store
	fetcher          Fetcher
	catalog          *catalog.Catalog
	redisClient      redis.UniversalClient
	gateFactory      GateFactory
	exceededCallback ExceededCallback
	metrics          MetricsCollector
	httpMetrics      httpclient.MetricsCollector
	storeMetrics     lrucache.MetricsCollector
}

// WithLogger sets the logger. Nothing is logged by default.
func WithLogger(logger log.FieldLogger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithStore sets the shared store for method limits.
// By default, Redis store is used when Redis is configured and in-memory store otherwise.
func WithStore(s store.Store) Option {
	return func(o *clientOptions) {
		o.store = s
	}
}

// WithFetcher replaces the HTTP transport.
func WithFetcher(f Fetcher) Option {
	return func(o *clientOptions) {
		o.fetcher = f
	}
}

// WithCatalog replaces the default endpoint catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *clientOptions) {
		o.catalog = c
	}
}

// WithRedisClient sets Redis client used for the shared store and gates.
// The client is not closed by Client.Close.
func WithRedisClient(client redis.UniversalClient) Option {
	return func(o *clientOptions) {
		o.redisClient = client
	}
}

// WithGateFactory replaces the factory of rate limit gates.
func WithGateFactory(f GateFactory) Option {
	return func(o *clientOptions) {
		o.gateFactory = f
	}
}

// WithExceededCallback sets a callback called on every 429 response.
func WithExceededCallback(cb ExceededCallback) Option {
	return func(o *clientOptions) {
		o.exceededCallback = cb
	}
}

// WithMetrics sets the scheduler metrics collector.
func WithMetrics(collector MetricsCollector) Option {
	return func(o *clientOptions) {
		o.metrics = collector
	}
}

// WithHTTPMetrics sets the metrics collector of the default HTTP transport.
// It's used only when metrics are enabled in the HTTP config.
func WithHTTPMetrics(collector httpclient.MetricsCollector) Option {
	return func(o *clientOptions) {
		o.httpMetrics = collector
	}
}

// WithStoreMetrics sets the metrics collector of the in-memory method limit store.
// It's ignored when a custom or Redis store is used.
func WithStoreMetrics(collector lrucache.MetricsCollector) Option {
	return func(o *clientOptions) {
		o.storeMetrics = collector
	}
}
