package model

import "context"

// KeyValue is the opaque string store backing all persistence. It has no
// transactions and no expiry; callers own document layout and consistency.
type KeyValue interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
