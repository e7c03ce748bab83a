/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package riotapi

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Priority defines which queue of the region the request goes to.
type Priority int

// Request priorities.
const (
	PriorityNormal Priority = iota
	PriorityHigh
)

// String returns a string representation of the priority.
func (p Priority) String() string {
	if p == PriorityHigh {
		return "high"
	}
	return "normal"
}

// Request describes a single Riot API call.
type Request struct {
	// Region is a routing value (platform or regional host), e.g. "na1", "euw1", "europe".
	Region string

	// Endpoint is a dotted path in the catalog, e.g. "summoner.byPuuid".
	Endpoint string

	// Args are substituted into the endpoint URL template in order.
	Args []string

	// Query is sent as a query string. Multiple values of a key are sent as repeated parameters.
	Query url.Values

	Priority Priority
}

// Result is the eventual result of a request.
// Body is nil for 404 responses.
type Result struct {
	Body json.RawMessage
	Err  error
}

// queueItem is a pending request with its retry state.
type queueItem struct {
	req     Request
	retries int
	delay   time.Duration
	backoff backoff.BackOff

	resultCh chan Result
	once     sync.Once
}

func newQueueItem(req Request) *queueItem {
	return &queueItem{req: req, resultCh: make(chan Result, 1)}
}

// resolve delivers the result. Only the first call has an effect.
func (it *queueItem) resolve(res Result) bool {
	delivered := false
	it.once.Do(func() {
		it.resultCh <- res
		close(it.resultCh)
		delivered = true
	})
	return delivered
}

func (it *queueItem) succeed(body []byte) bool {
	return it.resolve(Result{Body: body})
}

func (it *queueItem) fail(err error) bool {
	return it.resolve(Result{Err: err})
}
