// Package kv defines the string key-value contract the ledger persists
// through. Implementations only move raw serialized text; all JSON
// handling and corrupt-data fallback belongs to the caller.
package kv

import "context"

// Store is the persistence adapter contract.
type Store interface {
	// Get returns the raw value for key. The second return is false when
	// the key has never been written.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores the raw value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
