/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"net/http"

	"github.com/rs/xid"
)

// RequestIDHeader is an HTTP header with request ID.
const RequestIDHeader = "X-Request-ID"

// RequestIDRoundTripper sets X-Request-ID header in all outgoing requests.
type RequestIDRoundTripper struct {
	Delegate http.RoundTripper

	// RequestIDProvider returns request ID for the context.
	// When it's nil or returns an empty string, a new unique ID is generated.
	RequestIDProvider func(ctx context.Context) string
}

// NewRequestIDRoundTripper creates a new RequestIDRoundTripper.
func NewRequestIDRoundTripper(delegate http.RoundTripper, provider func(ctx context.Context) string) *RequestIDRoundTripper {
	if provider == nil {
		provider = GetRequestIDFromContext
	}
	return &RequestIDRoundTripper{Delegate: delegate, RequestIDProvider: provider}
}

// RoundTrip adds X-Request-ID header to the request.
func (rt *RequestIDRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get(RequestIDHeader) != "" {
		return rt.Delegate.RoundTrip(r)
	}
	requestID := rt.RequestIDProvider(r.Context())
	if requestID == "" {
		requestID = xid.New().String()
	}
	r = r.Clone(NewContextWithRequestID(r.Context(), requestID))
	r.Header.Set(RequestIDHeader, requestID)
	return rt.Delegate.RoundTrip(r)
}
