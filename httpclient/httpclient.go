/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"net/http"

	"github.com/gamebuddyapp/teeto/log"
)

// Opts provides options for NewWithOpts function.
type Opts struct {
	// APIKey is sent in X-Riot-Token header.
	APIKey string

	// UserAgent is a user agent string. DefaultUserAgent() is used when it's empty.
	UserAgent string

	// Delegate is the innermost RoundTripper in the chain. A clone of http.DefaultTransport is used when it's nil.
	Delegate http.RoundTripper

	// LoggerProvider is a function that provides a context-specific logger.
	LoggerProvider func(ctx context.Context) log.FieldLogger

	// RequestIDProvider is a function that provides a request ID.
	RequestIDProvider func(ctx context.Context) string

	// Collector is a metrics collector. It's used only when metrics are enabled in the config.
	Collector MetricsCollector
}

// New creates an HTTP client for the Riot API with the default options.
func New(cfg *Config, apiKey string) *http.Client {
	return NewWithOpts(cfg, Opts{APIKey: apiKey})
}

// NewWithOpts creates an HTTP client for the Riot API.
// Round trippers are chained so the request passes API key, user agent, request ID, metrics and logging
// ones before it reaches the delegate.
func NewWithOpts(cfg *Config, opts Opts) *http.Client {
	delegate := opts.Delegate
	if delegate == nil {
		delegate = http.DefaultTransport.(*http.Transport).Clone()
	}

	if cfg.Log.Mode != LoggingModeNone {
		delegate = NewLoggingRoundTripper(delegate, LoggingRoundTripperOpts{
			LoggerProvider:       opts.LoggerProvider,
			Mode:                 cfg.Log.Mode,
			SlowRequestThreshold: cfg.Log.SlowRequestThreshold,
		})
	}

	if cfg.Metrics.Enabled && opts.Collector != nil {
		delegate = NewMetricsRoundTripper(delegate, opts.Collector)
	}

	delegate = NewRequestIDRoundTripper(delegate, opts.RequestIDProvider)

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent()
	}
	delegate = NewUserAgentRoundTripper(delegate, userAgent, UserAgentUpdateStrategySetIfEmpty)

	delegate = NewAPIKeyRoundTripper(delegate, opts.APIKey)

	return &http.Client{Transport: delegate, Timeout: cfg.Timeout}
}
