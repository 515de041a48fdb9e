package domain

import "context"

// KVStore is a durable string-to-string map for small auxiliary records
// such as user preferences. Callers serialize structured values to and
// from strings themselves.
type KVStore interface {
	// Get returns the stored value, or ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes a key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}
