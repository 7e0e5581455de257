package cache

import (
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/ristretto"
)

// simple cache implemented using ristretto cache library
type InMemoryCache struct {
	cache *ristretto.Cache
}

var inMemoryCache *InMemoryCache
var sessionCache *InMemoryCache

func InMemoryInitialize(config *ristretto.Config) *InMemoryCache {
	if config == nil {
		config = &ristretto.Config{
			NumCounters: 100000,   // number of keys to track frequency
			MaxCost:     67108864, // maximum cost of cache (64mb).
			BufferItems: 64,       // number of keys per Get buffer.
		}
	}
	cache, err := ristretto.NewCache(config)
	if err != nil {
		slog.Error("error initializing in-memory cache", "error", err)
		os.Exit(1)
	}

	inMemoryCache = &InMemoryCache{cache}

	initializeSessionCache()

	return inMemoryCache
}

func GetCache() *InMemoryCache {
	return inMemoryCache
}

// GetSessionCache returns the cache holding mounted form sessions, keyed by
// session id. Kept separate so a burst of page loads cannot evict the
// process salt.
func GetSessionCache() *InMemoryCache {
	return sessionCache
}

func initializeSessionCache() {
	sessionCacheConfig := &ristretto.Config{
		NumCounters: 100000,   // number of keys to track frequency
		MaxCost:     67108864, // maximum cost of cache (64mb).
		BufferItems: 64,       // number of keys per Get buffer.
	}

	sc, err := ristretto.NewCache(sessionCacheConfig)
	if err != nil {
		slog.Error("error initializing in-memory cache for sessions", "error", err)
		os.Exit(1)
	}

	sessionCache = &InMemoryCache{sc}
}

func (c *InMemoryCache) Set(key string, value any) bool {
	ok := c.cache.Set(key, value, 1)
	c.cache.Wait()
	return ok
}

func (c *InMemoryCache) SetWithTTL(key string, value any, ttl time.Duration) bool {
	ok := c.cache.SetWithTTL(key, value, 1, ttl)
	c.cache.Wait()
	return ok
}

func (c *InMemoryCache) Get(key string) (any, bool) {
	return c.cache.Get(key)
}

func (c *InMemoryCache) Delete(key string) {
	c.cache.Del(key)
}
