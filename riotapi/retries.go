/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package riotapi

import (
	"errors"
	"net/url"
	"time"

	"github.com/gamebuddyapp/teeto/httpclient"
	"github.com/gamebuddyapp/teeto/log"
	"github.com/gamebuddyapp/teeto/retry"
)

// serverFaultBackoffMultiplier makes server fault retries wait D, 2D, 4D and so on.
const serverFaultBackoffMultiplier = 2

// route resolves the item or schedules its retry according to the outcome of the attempt.
func (r *region) route(it *queueItem, rawURL string, resp *httpclient.Response, fetchErr error) {
	outcome := classify(resp, fetchErr)
	switch outcome {
	case OutcomeSuccess:
		it.succeed(resp.Body)

	case OutcomeNotFound:
		it.succeed(nil)

	case OutcomeRateLimited:
		r.notifyRateLimited(it, rawURL, resp)
		if it.retries < r.client.cfg.MaxRetries {
			it.retries++
			it.req.Priority = PriorityHigh
			if retryAfter, ok := resp.RetryAfter(); ok {
				it.delay = retryAfter
			} else if it.delay == 0 {
				it.delay = r.client.cfg.RetryDelay
			}
			r.retry(it, outcome)
			return
		}
		r.failTerminally(it, outcome, rawURL, resp, nil)

	case OutcomeServerFault:
		if it.retries < r.client.cfg.MaxRetries {
			it.retries++
			it.delay = it.nextServerFaultDelay(r.client.cfg.RetryDelay)
			r.retry(it, outcome)
			return
		}
		r.failTerminally(it, outcome, rawURL, resp, nil)

	default:
		r.failTerminally(it, outcome, rawURL, resp, fetchErr)
	}
}

func (r *region) retry(it *queueItem, outcome Outcome) {
	r.client.metrics.IncRetries(r.name, outcome)
	r.logger.Debug("retrying riot api request", log.Endpoint(it.req.Endpoint),
		log.String("outcome", outcome.String()), log.Int("retries", it.retries),
		log.Int64("delay_ms", it.delay.Milliseconds()), log.String("priority", it.req.Priority.String()))
	r.requeue(it)
}

func (r *region) notifyRateLimited(it *queueItem, rawURL string, resp *httpclient.Response) {
	if r.client.cfg.ShowWarn {
		r.logger.Warn("429 - rate limit exceeded", log.Endpoint(it.req.Endpoint),
			log.String("url", rawURL), log.Any("headers", resp.Header))
	}
	if cb := r.client.exceededCallback; cb != nil {
		cb(RateLimitEvent{Region: r.name, Endpoint: it.req.Endpoint, URL: rawURL, Header: resp.Header})
	}
}

func (r *region) failTerminally(
	it *queueItem, outcome Outcome, rawURL string, resp *httpclient.Response, fetchErr error,
) {
	apiErr := &APIError{Kind: outcome, URL: rawURL, RetryCount: it.retries, Err: fetchErr}
	if resp != nil {
		apiErr.StatusCode = resp.StatusCode
		apiErr.Message = errorMessage(resp)
	} else if fetchErr != nil {
		apiErr.Message = transportErrorMessage(fetchErr)
	}
	r.client.metrics.IncFailures(r.name, outcome)
	r.fail(it, apiErr)
}

// nextServerFaultDelay returns the next delay of the item's own exponential backoff.
func (it *queueItem) nextServerFaultDelay(initial time.Duration) time.Duration {
	if it.backoff == nil {
		it.backoff = retry.NewExponentialBackoffPolicyWithOpts(initial, 0,
			retry.ExponentialBackoffOpts{Multiplier: serverFaultBackoffMultiplier, NoJitter: true}).NewBackOff()
	}
	return it.backoff.NextBackOff()
}

// transportErrorMessage strips the method and URL that net/http adds to transport errors.
func transportErrorMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}
