/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"

	"github.com/gamebuddyapp/teeto/log"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyEndpoint
	ctxKeyLogger
)

func getStringFromContext(ctx context.Context, key ctxKey) string {
	if s, ok := ctx.Value(key).(string); ok {
		return s
	}
	return ""
}

// NewContextWithRequestID creates a new context with request ID that will be sent in X-Request-ID header.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// GetRequestIDFromContext extracts request ID from the context.
func GetRequestIDFromContext(ctx context.Context) string {
	return getStringFromContext(ctx, ctxKeyRequestID)
}

// NewContextWithEndpoint creates a new context with logical endpoint name (e.g. "summoner.byName").
// It's used for logging and as a non-parameterized summary in metrics.
func NewContextWithEndpoint(ctx context.Context, endpoint string) context.Context {
	return context.WithValue(ctx, ctxKeyEndpoint, endpoint)
}

// GetEndpointFromContext extracts logical endpoint name from the context.
func GetEndpointFromContext(ctx context.Context) string {
	return getStringFromContext(ctx, ctxKeyEndpoint)
}

// NewContextWithLogger creates a new context with logger.
func NewContextWithLogger(ctx context.Context, logger log.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, logger)
}

// GetLoggerFromContext extracts logger from the context.
func GetLoggerFromContext(ctx context.Context) log.FieldLogger {
	if logger, ok := ctx.Value(ctxKeyLogger).(log.FieldLogger); ok {
		return logger
	}
	return nil
}
