package cache

import "time"

// RedisOption configures the Redis client and stores.
type RedisOption func(*RedisConfig)

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	PoolSize       int
	PoolTimeout    time.Duration
	MinIdleConns   int
	Prefix         string
	StaleRetention time.Duration
}

func defaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:           "localhost:6379",
		PoolSize:       10,
		PoolTimeout:    30 * time.Second,
		MinIdleConns:   2,
		Prefix:         "fundamentals",
		StaleRetention: 24 * time.Hour,
	}
}

// WithRedisAddr sets host:port.
func WithRedisAddr(addr string) RedisOption {
	return func(c *RedisConfig) {
		if addr != "" {
			c.Addr = addr
		}
	}
}

// WithRedisPassword sets Redis password.
func WithRedisPassword(password string) RedisOption {
	return func(c *RedisConfig) {
		c.Password = password
	}
}

// WithRedisDB sets Redis database number.
func WithRedisDB(db int) RedisOption {
	return func(c *RedisConfig) {
		c.DB = db
	}
}

// WithRedisPool sets connection pool settings.
func WithRedisPool(poolSize, minIdleConns int, timeout time.Duration) RedisOption {
	return func(c *RedisConfig) {
		c.PoolSize = poolSize
		c.MinIdleConns = minIdleConns
		c.PoolTimeout = timeout
	}
}

// WithRedisPrefix sets key prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(c *RedisConfig) {
		if prefix != "" {
			c.Prefix = prefix
		}
	}
}

// WithRedisStaleRetention sets how long entries survive past their TTL.
func WithRedisStaleRetention(d time.Duration) RedisOption {
	return func(c *RedisConfig) {
		c.StaleRetention = d
	}
}

// MemoryOption configures MemoryStore.
type MemoryOption func(*MemoryConfig)

// MemoryConfig holds memory store configuration.
type MemoryConfig struct {
	MaxSize         int
	CleanupInterval time.Duration
	// StaleRetention bounds how long expired entries stay readable through
	// GetStale. Zero keeps them until evicted.
	StaleRetention time.Duration
	Clock          func() time.Time
}

func defaultMemoryConfig() *MemoryConfig {
	return &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: 5 * time.Minute,
		StaleRetention:  24 * time.Hour,
		Clock:           time.Now,
	}
}

// WithMemoryMaxSize sets max number of entries before LRU eviction.
func WithMemoryMaxSize(size int) MemoryOption {
	return func(c *MemoryConfig) {
		if size > 0 {
			c.MaxSize = size
		}
	}
}

// WithMemoryCleanup sets cleanup interval. Zero disables the janitor.
func WithMemoryCleanup(interval time.Duration) MemoryOption {
	return func(c *MemoryConfig) {
		c.CleanupInterval = interval
	}
}

// WithMemoryStaleRetention sets how long entries survive past their TTL.
func WithMemoryStaleRetention(d time.Duration) MemoryOption {
	return func(c *MemoryConfig) {
		c.StaleRetention = d
	}
}

// WithMemoryClock overrides time.Now, for tests.
func WithMemoryClock(clock func() time.Time) MemoryOption {
	return func(c *MemoryConfig) {
		if clock != nil {
			c.Clock = clock
		}
	}
}
