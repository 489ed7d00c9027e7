package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

type memoryItem[V any] struct {
	entry      Entry[V]
	lastAccess time.Time
}

// MemoryStore implements Store in process memory with LRU eviction.
// Expired entries are kept for StaleRetention so GetStale can serve them.
type MemoryStore[V any] struct {
	mu             sync.RWMutex
	items          map[string]*memoryItem[V]
	maxSize        int
	staleRetention time.Duration
	now            func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore[V any](opts ...MemoryOption) *MemoryStore[V] {
	cfg := defaultMemoryConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	ms := &MemoryStore[V]{
		items:          make(map[string]*memoryItem[V]),
		maxSize:        cfg.MaxSize,
		staleRetention: cfg.StaleRetention,
		now:            cfg.Clock,
		stop:           make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go ms.janitor(cfg.CleanupInterval)
	}
	return ms
}

func (ms *MemoryStore[V]) Get(_ context.Context, key string) (V, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var zero V
	item, ok := ms.items[key]
	now := ms.now()
	if !ok || item.entry.Expired(now) {
		return zero, false, nil
	}
	item.lastAccess = now
	return item.entry.Value, true, nil
}

func (ms *MemoryStore[V]) GetStale(_ context.Context, key string) (V, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var zero V
	item, ok := ms.items[key]
	if !ok {
		return zero, false, nil
	}
	return item.entry.Value, true, nil
}

func (ms *MemoryStore[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	return ms.Put(ctx, key, NewEntry(value, ms.now(), ttl))
}

func (ms *MemoryStore[V]) Lookup(_ context.Context, key string) (Entry[V], bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, ok := ms.items[key]
	if !ok {
		return Entry[V]{}, false, nil
	}
	return item.entry, true, nil
}

func (ms *MemoryStore[V]) Put(_ context.Context, key string, entry Entry[V]) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.items[key]; !exists && len(ms.items) >= ms.maxSize {
		ms.evictLRU()
	}
	ms.items[key] = &memoryItem[V]{entry: entry, lastAccess: ms.now()}
	return nil
}

func (ms *MemoryStore[V]) Delete(_ context.Context, keys ...string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, key := range keys {
		delete(ms.items, key)
	}
	return nil
}

func (ms *MemoryStore[V]) DeleteMatching(_ context.Context, pattern string) error {
	if _, err := path.Match(pattern, ""); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	for key := range ms.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(ms.items, key)
		}
	}
	return nil
}

func (ms *MemoryStore[V]) Clear(_ context.Context) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items = make(map[string]*memoryItem[V])
	return nil
}

// Len returns the number of entries, expired ones included.
func (ms *MemoryStore[V]) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.items)
}

// evictLRU drops the least recently used entry. Caller holds the lock.
func (ms *MemoryStore[V]) evictLRU() {
	var oldestKey string
	var oldest time.Time
	for key, item := range ms.items {
		if oldestKey == "" || item.lastAccess.Before(oldest) {
			oldestKey = key
			oldest = item.lastAccess
		}
	}
	if oldestKey != "" {
		delete(ms.items, oldestKey)
	}
}

// PurgeRetired removes entries whose stale retention has elapsed.
func (ms *MemoryStore[V]) PurgeRetired() int {
	if ms.staleRetention <= 0 {
		return 0
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	purged := 0
	for key, item := range ms.items {
		if now.After(item.entry.ExpiresAt.Add(ms.staleRetention)) {
			delete(ms.items, key)
			purged++
		}
	}
	return purged
}

func (ms *MemoryStore[V]) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ms.PurgeRetired()
		case <-ms.stop:
			return
		}
	}
}

// Close stops the cleanup goroutine.
func (ms *MemoryStore[V]) Close() error {
	ms.stopOnce.Do(func() { close(ms.stop) })
	return nil
}
