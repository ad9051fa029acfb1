package cache

import (
	"encoding/json"
	"time"
)

// SchemaVersion is the version stamped on every entry written by this build.
// Bump it whenever the cached value's JSON shape changes.
const SchemaVersion = 1

// Entry is the envelope stored in the persistent slot.
type Entry struct {
	// Version is the schema version the data was written with
	Version int `json:"version"`

	// Data is the JSON-encoded cached value
	Data json.RawMessage `json:"data"`

	// CachedAt is when the value was written
	CachedAt time.Time `json:"cached_at"`

	// Expires is when the entry becomes stale; zero means never
	Expires time.Time `json:"expires,omitempty"`
}

// IsExpired returns true if the cache entry has expired.
// Entries without an expiry never expire.
func (e *Entry) IsExpired() bool {
	if e.Expires.IsZero() {
		return false
	}
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired, and -1 if the entry never expires.
func (e *Entry) TTL() time.Duration {
	if e.Expires.IsZero() {
		return -1
	}
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
