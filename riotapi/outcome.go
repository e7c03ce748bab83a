/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package riotapi

import (
	"encoding/json"
	"net/http"

	"github.com/gamebuddyapp/teeto/httpclient"
)

// Outcome is a classification of a request attempt.
type Outcome int

// Outcomes of request attempts.
const (
	OutcomeSuccess Outcome = iota
	OutcomeNotFound
	OutcomeRateLimited
	OutcomeServerFault
	OutcomeFailure
)

// String returns a string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeServerFault:
		return "server_fault"
	case OutcomeFailure:
		return "failure"
	}
	return "unknown"
}

// classify decides the outcome of an attempt once, right after the transport returns.
func classify(resp *httpclient.Response, err error) Outcome {
	if err != nil || resp == nil {
		return OutcomeFailure
	}
	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return OutcomeSuccess
	case resp.StatusCode == http.StatusNotFound:
		return OutcomeNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return OutcomeRateLimited
	case resp.StatusCode >= http.StatusInternalServerError && resp.StatusCode <= 599:
		return OutcomeServerFault
	}
	return OutcomeFailure
}

type riotErrorBody struct {
	Status struct {
		Message    string `json:"message"`
		StatusCode int    `json:"status_code"`
	} `json:"status"`
}

// errorMessage extracts the message from the Riot API error body, falling back to the status text.
func errorMessage(resp *httpclient.Response) string {
	var body riotErrorBody
	if err := json.Unmarshal(resp.Body, &body); err == nil && body.Status.Message != "" {
		return body.Status.Message
	}
	return http.StatusText(resp.StatusCode)
}
