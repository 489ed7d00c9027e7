package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// DefaultTTL applies when Set is called with a non-positive ttl.
const DefaultTTL = 15 * time.Minute

// Entry is the stored form of a value. Entries outlive ExpiresAt so callers
// can opt into stale reads; only retention cleanup or Delete removes them.
type Entry[V any] struct {
	Value     V         `json:"value"`
	StoredAt  time.Time `json:"storedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the entry is past its TTL at now.
func (e Entry[V]) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// NewEntry builds an entry that expires ttl after now.
func NewEntry[V any](value V, now time.Time, ttl time.Duration) Entry[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Entry[V]{Value: value, StoredAt: now, ExpiresAt: now.Add(ttl)}
}

// Store is a typed key/value cache with expiry and explicit stale reads.
//
// Get only returns entries that have not expired. GetStale ignores expiry and
// is the only way an expired entry becomes visible. Set replaces the previous
// entry wholesale; concurrent writers resolve last-writer-wins.
type Store[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	GetStale(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteMatching removes every key matching a glob pattern ("*:PETR4").
	DeleteMatching(ctx context.Context, pattern string) error
	Clear(ctx context.Context) error

	// Lookup and Put move raw entries between tiers.
	Lookup(ctx context.Context, key string) (Entry[V], bool, error)
	Put(ctx context.Context, key string, entry Entry[V]) error
}
