/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import "net/http"

// APIKeyHeader is an HTTP header used by the Riot API for authorization.
const APIKeyHeader = "X-Riot-Token"

// APIKeyRoundTripper implements http.RoundTripper interface
// and sets X-Riot-Token HTTP header in all outgoing requests.
type APIKeyRoundTripper struct {
	Delegate http.RoundTripper
	APIKey   string
}

// NewAPIKeyRoundTripper creates a new APIKeyRoundTripper.
func NewAPIKeyRoundTripper(delegate http.RoundTripper, apiKey string) *APIKeyRoundTripper {
	return &APIKeyRoundTripper{Delegate: delegate, APIKey: apiKey}
}

// RoundTrip executes a single HTTP transaction, returning a Response for the provided Request.
// The header already set by the caller is preserved.
func (rt *APIKeyRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(APIKeyHeader) != "" || rt.APIKey == "" {
		return rt.Delegate.RoundTrip(req)
	}
	req = req.Clone(req.Context()) // Per RoundTripper contract.
	req.Header.Set(APIKeyHeader, rt.APIKey)
	return rt.Delegate.RoundTrip(req)
}
