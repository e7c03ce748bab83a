/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

// Package riotapi provides a client for the Riot Games API that schedules requests
// so that application and per-endpoint rate limits are respected.
//
// Requests are queued per region (priority and normal queues) and dispatched by a single
// worker per region. Before each dispatch the worker consults two application gates and
// the endpoint group gate, sleeps out the longest wait and sends the request.
// Rate-limited (429) and server fault (5xx) responses are retried with backoff,
// and method limits reported by the server (X-Method-Rate-Limit header) are applied at runtime
// and persisted to a shared store, so cooperating processes pick them up.
package riotapi
