package cache

import (
	"context"
	"errors"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store is a string-keyed byte store.
type Store interface {
	// Get returns the value for key or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Clear removes key. Clearing a missing key is not an error.
	Clear(ctx context.Context, key string) error
}
