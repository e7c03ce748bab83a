/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package riotapi

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gamebuddyapp/teeto/catalog"
	"github.com/gamebuddyapp/teeto/httpclient"
	"github.com/gamebuddyapp/teeto/log"
)

// region owns the queues, the worker and the gates of a single routing value.
// At most one worker (drain) is active per region. The draining flag and the queues
// are guarded by the same mutex, so the worker can't go idle while an item is being enqueued.
type region struct {
	name   string
	client *Client
	limits *limiterSet
	logger log.FieldLogger

	mu       sync.Mutex
	priority itemQueue
	normal   itemQueue
	draining bool
}

func newRegion(c *Client, name string) (*region, error) {
	logger := c.logger.With(log.Region(name))
	limits, err := newLimiterSet(c, name, logger)
	if err != nil {
		return nil, err
	}
	return &region{name: name, client: c, limits: limits, logger: logger}, nil
}

// enqueue adds a new item to the tail of the queue chosen by its priority and starts the worker if it's idle.
// Must be called under the client lifecycle read lock.
func (r *region) enqueue(it *queueItem) {
	r.mu.Lock()
	q := r.queueFor(it.req.Priority)
	q.push(it)
	r.client.metrics.SetQueueDepth(r.name, it.req.Priority, q.len())
	start := !r.draining
	r.draining = true
	r.mu.Unlock()

	if start {
		r.client.wg.Add(1)
		go r.drain()
	}
}

// requeue puts a retried item to the head of the queue chosen by its priority.
// It's called from the worker only, so the worker is known to be active.
func (r *region) requeue(it *queueItem) {
	r.mu.Lock()
	q := r.queueFor(it.req.Priority)
	q.pushFront(it)
	r.client.metrics.SetQueueDepth(r.name, it.req.Priority, q.len())
	r.mu.Unlock()
}

func (r *region) queueFor(p Priority) *itemQueue {
	if p == PriorityHigh {
		return &r.priority
	}
	return &r.normal
}

// next takes the item to process: the priority queue is drained first, then one normal item is taken.
// If both queues are empty, the worker becomes idle in the same critical section.
func (r *region) next() *queueItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	if it := r.priority.pop(); it != nil {
		r.client.metrics.SetQueueDepth(r.name, PriorityHigh, r.priority.len())
		return it
	}
	if it := r.normal.pop(); it != nil {
		r.client.metrics.SetQueueDepth(r.name, PriorityNormal, r.normal.len())
		return it
	}
	r.draining = false
	return nil
}

func (r *region) drain() {
	defer r.client.wg.Done()
	r.logger.Debug("queue processing started")
	for {
		it := r.next()
		if it == nil {
			r.logger.Debug("queue processing stopped")
			return
		}
		r.process(it)
	}
}

// takePending removes all pending items from the queues.
func (r *region) takePending() []*queueItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := append(r.priority.takeAll(), r.normal.takeAll()...)
	r.client.metrics.SetQueueDepth(r.name, PriorityHigh, 0)
	r.client.metrics.SetQueueDepth(r.name, PriorityNormal, 0)
	return items
}

func (r *region) process(it *queueItem) {
	ctx := r.client.ctx
	if ctx.Err() != nil {
		it.fail(ErrClientClosed)
		return
	}

	endpoint, ok := r.client.catalog.Lookup(it.req.Endpoint)
	if !ok {
		r.fail(it, fmt.Errorf("%w %q", ErrUnknownEndpoint, it.req.Endpoint))
		return
	}
	path, err := catalog.BuildPath(endpoint.URL, it.req.Args)
	if err != nil {
		r.fail(it, fmt.Errorf("%w: endpoint %q: %w", ErrPathArity, it.req.Endpoint, err))
		return
	}
	rawURL := strings.Replace(r.client.cfg.Prefix, "%s", r.name, 1) + path
	group := endpoint.Group
	if group == "" {
		group = endpoint.Path
	}

	gate, err := r.limits.groupGate(ctx, group, endpoint.Limit)
	if err != nil {
		r.fail(it, err)
		return
	}
	gateWait := r.limits.wait(ctx, gate)
	r.client.metrics.ObserveGateWait(r.name, gateWait)
	if total := gateWait + it.delay; total > 0 {
		r.logger.Debug("snoozing", log.Endpoint(it.req.Endpoint),
			log.DurationIn(total, time.Millisecond), log.Int("retries", it.retries))
		if err = r.client.sleep(ctx, total); err != nil {
			it.fail(ErrClientClosed)
			return
		}
	}

	fetchCtx := httpclient.NewContextWithEndpoint(ctx, it.req.Endpoint)
	fetchCtx = httpclient.NewContextWithLogger(fetchCtx, r.logger)
	resp, err := r.client.fetcher.Fetch(fetchCtx, rawURL, it.req.Query)
	if err != nil && ctx.Err() != nil {
		it.fail(ErrClientClosed)
		return
	}
	if resp != nil {
		r.limits.adjust(ctx, group, resp.MethodRateLimit())
	}
	r.route(it, rawURL, resp, err)
}

// fail resolves the item with a terminal error.
func (r *region) fail(it *queueItem, err error) {
	r.logger.Error("riot api request failed", log.Endpoint(it.req.Endpoint), log.Error(err))
	it.fail(err)
}
