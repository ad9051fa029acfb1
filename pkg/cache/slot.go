package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// SlotKey is the key the catalog collection is stored under.
const SlotKey = "pokedex"

// Slot reads and writes one JSON-encoded value of type T under a fixed key.
type Slot[T any] struct {
	store   Store
	key     string
	ttl     time.Duration
	version int
}

// NewSlot creates a slot over store. A ttl of zero keeps the value forever.
func NewSlot[T any](store Store, key string, ttl time.Duration) *Slot[T] {
	if store == nil {
		panic("cache store cannot be nil")
	}
	return &Slot[T]{
		store:   store,
		key:     key,
		ttl:     ttl,
		version: SchemaVersion,
	}
}

// Key returns the store key of the slot.
func (s *Slot[T]) Key() string {
	return s.key
}

// Load returns the cached value.
// Returns ErrCacheMiss if nothing is stored, the entry expired, or it was
// written by a different schema version.
func (s *Slot[T]) Load(ctx context.Context) (T, error) {
	var zero T

	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		return zero, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if entry.Version != s.version {
		log.Debug().
			Str("key", s.key).
			Int("version", entry.Version).
			Int("want_version", s.version).
			Msg("Cache entry version mismatch - treating as miss")
		return zero, ErrCacheMiss
	}

	if entry.IsExpired() {
		log.Debug().
			Str("key", s.key).
			Time("expires", entry.Expires).
			Msg("Cache entry expired")
		if err := s.store.Clear(ctx, s.key); err != nil {
			log.Warn().Err(err).Str("key", s.key).Msg("Failed to clear expired cache entry")
		}
		return zero, ErrCacheMiss
	}

	var value T
	if err := json.Unmarshal(entry.Data, &value); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	log.Debug().
		Str("key", s.key).
		Time("cached_at", entry.CachedAt).
		Dur("ttl", entry.TTL()).
		Msg("Cache hit")
	return value, nil
}

// Save replaces the stored value in a single write.
func (s *Slot[T]) Save(ctx context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	now := time.Now()
	entry := Entry{
		Version:  s.version,
		Data:     data,
		CachedAt: now,
	}
	if s.ttl > 0 {
		entry.Expires = now.Add(s.ttl)
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := s.store.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// Clear removes the stored value.
func (s *Slot[T]) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx, s.key); err != nil {
		return fmt.Errorf("clear cache entry: %w", err)
	}
	return nil
}

// IsMiss reports whether err means the slot is empty rather than broken.
func IsMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}
