/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

// Package store provides a key-value store for rate limits discovered at runtime,
// so cooperating processes (and restarted ones) converge on the same limits.
package store

import "context"

// Store is a minimal key-value store.
type Store interface {
	// Get returns the value by key. found is false when there is no such key.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores the value by key.
	Set(ctx context.Context, key, value string) error
}

// LimitKey returns the key under which the limit of the endpoint group is kept.
// Namespace separates environments (e.g. "production", "staging") sharing the same store.
func LimitKey(namespace, region, group string) string {
	return namespace + region + group + "_limit"
}
