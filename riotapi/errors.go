/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package riotapi

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is returned when the request or the client cannot be set up.
// No rate limit budget is consumed for such requests.
var ErrConfiguration = errors.New("configuration error")

// ErrUnknownEndpoint is returned when the requested endpoint is missing in the catalog.
var ErrUnknownEndpoint = fmt.Errorf("%w: unknown endpoint", ErrConfiguration)

// ErrPathArity is returned when the number of path arguments doesn't match the endpoint URL template.
var ErrPathArity = fmt.Errorf("%w: wrong number of path arguments", ErrConfiguration)

// ErrClientClosed is returned for requests that are pending or submitted when the client is closed.
var ErrClientClosed = errors.New("client is closed")

// Sentinel errors matching *APIError of the corresponding kind with errors.Is.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrServerFault = errors.New("server fault")
	ErrTransport   = errors.New("request failed")
)

// APIError is a terminal error of a request that reached the Riot API (or tried to).
type APIError struct {
	// Kind is the outcome of the last attempt.
	Kind Outcome

	// StatusCode is the HTTP status code of the last response (0 if no response was received).
	StatusCode int

	// Message is the error message reported by the server or the transport.
	Message string

	// URL is the requested URL without query.
	URL string

	// RetryCount is the number of retries done before giving up.
	RetryCount int

	// Err is the transport error if any.
	Err error
}

// Error returns a string representation of the error.
func (e *APIError) Error() string {
	var sb strings.Builder
	switch e.Kind {
	case OutcomeRateLimited:
		sb.WriteString(fmt.Sprintf("429 - aborting request after retrying %d times", e.RetryCount))
	case OutcomeServerFault:
		sb.WriteString(fmt.Sprintf("%d - aborting request after retrying %d times", e.StatusCode, e.RetryCount))
	default:
		if e.StatusCode != 0 {
			sb.WriteString(fmt.Sprintf("%d - request failed", e.StatusCode))
		} else {
			sb.WriteString("request failed")
		}
	}
	if e.URL != "" {
		sb.WriteString(" (" + e.URL + ")")
	}
	if e.Message != "" {
		sb.WriteString(": " + e.Message)
	}
	return sb.String()
}

// Unwrap returns the transport error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches the error against ErrRateLimited, ErrServerFault and ErrTransport sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.Kind == OutcomeRateLimited
	case ErrServerFault:
		return e.Kind == OutcomeServerFault
	case ErrTransport:
		return e.Kind == OutcomeFailure
	}
	return false
}
