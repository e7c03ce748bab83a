/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Headers of the Riot API responses.
const (
	RetryAfterHeader      = "Retry-After"
	MethodRateLimitHeader = "X-Method-Rate-Limit"
	AppRateLimitHeader    = "X-App-Rate-Limit"
	RateLimitTypeHeader   = "X-Rate-Limit-Type"
)

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// RetryAfter returns the delay requested by the server in Retry-After header.
func (r *Response) RetryAfter() (time.Duration, bool) {
	return ParseRetryAfter(r.Header.Get(RetryAfterHeader))
}

// MethodRateLimit returns the current method limit reported by the server ("" if not reported).
func (r *Response) MethodRateLimit() string {
	return r.Header.Get(MethodRateLimitHeader)
}

// APIClient sends GET requests and reads responses completely.
type APIClient struct {
	Client *http.Client
}

// NewAPIClient creates a new APIClient.
func NewAPIClient(client *http.Client) *APIClient {
	return &APIClient{Client: client}
}

// Fetch sends GET request to rawURL with query parameters.
// Response is returned for any status code, error is returned only when the response cannot be received.
func (c *APIClient) Fetch(ctx context.Context, rawURL string, query url.Values) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if len(query) != 0 {
		q := u.Query()
		for key, values := range query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// ParseRetryAfter parses the value of Retry-After header: a number of seconds or an HTTP date.
func ParseRetryAfter(val string) (time.Duration, bool) {
	if val == "" {
		return 0, false
	}
	seconds, err := strconv.Atoi(val)
	if err != nil {
		t, parseErr := time.Parse(time.RFC1123, val)
		if parseErr != nil {
			return 0, false
		}
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	if seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}
