// Package cache provides the persistent slot that keeps the fetched catalog
// across restarts.
//
// A Store is a minimal string-keyed byte store (Get/Set/Clear) with three
// backends:
//
//   - MemoryStore: process-local map, used by tests and throwaway runs
//   - SQLiteStore: a single local database file, the closest analogue of
//     browser local storage
//   - RedisStore: shared storage when several instances run side by side
//
// # Basic Usage
//
//	store := cache.NewMemoryStore()
//	slot := cache.NewSlot[[]catalog.Summary](store, cache.SlotKey, 0)
//
//	items, err := slot.Load(ctx)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// Nothing cached - fetch from the API
//	}
//
//	if err := slot.Save(ctx, items); err != nil {
//		return err
//	}
//
// # Versioning and TTL
//
// Values are wrapped in an Entry envelope carrying the schema version and an
// optional expiry. An entry written by a different schema version, or one
// whose expiry has passed, reads as a miss. A TTL of zero never expires.
//
// # Metrics
//
//   - pokedex_cache_hits_total{backend} - Slot hits
//   - pokedex_cache_misses_total{backend} - Slot misses
//   - pokedex_cache_size_bytes{backend} - Size of the last written value
//   - pokedex_cache_errors_total{backend,operation} - Store operation errors
package cache
