package cache

import (
	"context"
	"time"
)

// LayeredStore is a two-tier Store (L1 usually memory, L2 usually Redis).
// Writes go through to both tiers; reads fall back to L2 and backfill L1.
type LayeredStore[V any] struct {
	l1 Store[V]
	l2 Store[V]
}

// NewLayeredStore stacks l1 over l2.
func NewLayeredStore[V any](l1, l2 Store[V]) *LayeredStore[V] {
	return &LayeredStore[V]{l1: l1, l2: l2}
}

func (lc *LayeredStore[V]) Get(ctx context.Context, key string) (V, bool, error) {
	if v, ok, err := lc.l1.Get(ctx, key); err == nil && ok {
		return v, true, nil
	}
	if !lc.backfill(ctx, key) {
		var zero V
		return zero, false, nil
	}
	return lc.l1.Get(ctx, key)
}

func (lc *LayeredStore[V]) GetStale(ctx context.Context, key string) (V, bool, error) {
	if v, ok, err := lc.l1.GetStale(ctx, key); err == nil && ok {
		return v, true, nil
	}
	if !lc.backfill(ctx, key) {
		var zero V
		return zero, false, nil
	}
	return lc.l1.GetStale(ctx, key)
}

// backfill copies the L2 entry for key into L1, expiry preserved.
func (lc *LayeredStore[V]) backfill(ctx context.Context, key string) bool {
	entry, ok, err := lc.l2.Lookup(ctx, key)
	if err != nil || !ok {
		return false
	}
	return lc.l1.Put(ctx, key, entry) == nil
}

func (lc *LayeredStore[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	return lc.Put(ctx, key, NewEntry(value, time.Now(), ttl))
}

func (lc *LayeredStore[V]) Lookup(ctx context.Context, key string) (Entry[V], bool, error) {
	if e, ok, err := lc.l1.Lookup(ctx, key); err == nil && ok {
		return e, true, nil
	}
	return lc.l2.Lookup(ctx, key)
}

func (lc *LayeredStore[V]) Put(ctx context.Context, key string, entry Entry[V]) error {
	// Write-through: L2 first so L1 never holds a value L2 rejected.
	if err := lc.l2.Put(ctx, key, entry); err != nil {
		return err
	}
	return lc.l1.Put(ctx, key, entry)
}

func (lc *LayeredStore[V]) Delete(ctx context.Context, keys ...string) error {
	_ = lc.l1.Delete(ctx, keys...)
	return lc.l2.Delete(ctx, keys...)
}

func (lc *LayeredStore[V]) DeleteMatching(ctx context.Context, pattern string) error {
	_ = lc.l1.DeleteMatching(ctx, pattern)
	return lc.l2.DeleteMatching(ctx, pattern)
}

func (lc *LayeredStore[V]) Clear(ctx context.Context) error {
	_ = lc.l1.Clear(ctx)
	return lc.l2.Clear(ctx)
}
