package progress

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultCacheSize = 16 * 1024 * 1024
	DefaultCacheTTL  = 60 * time.Second
)

// Cache keeps computed reports per user. Every entry key carries the user's
// generation; Invalidate bumps it, so older entries are never read again and
// simply expire.
type Cache struct {
	cache      *freecache.Cache
	ttlSeconds int

	mu sync.Mutex
	// one entry per user that ever wrote since start, never pruned; a few
	// bytes per user, bounded by the users table
	generations map[int]uint64
}

func NewCache(sizeBytes int, ttl time.Duration) *Cache {
	return &Cache{
		cache:       freecache.NewCache(sizeBytes),
		ttlSeconds:  int(ttl.Seconds()),
		generations: make(map[int]uint64),
	}
}

func (c *Cache) Invalidate(userID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[userID]++
}

// Key builds the cache key of a report for the user's current generation.
func (c *Cache) Key(userID int, report, args string) []byte {
	c.mu.Lock()
	gen := c.generations[userID]
	c.mu.Unlock()
	return []byte(fmt.Sprintf("%d::%d::%s::%s", userID, gen, report, args))
}

func (c *Cache) Get(key []byte, v any) bool {
	cached, err := c.cache.Get(key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(cached, v); err != nil {
		log.Errorf("unmarshal cached report [%s]: %s", key, err)
		return false
	}
	return true
}

func (c *Cache) Set(key []byte, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal report for cache [%s]: %s", key, err)
		return
	}
	if err := c.cache.Set(key, data, c.ttlSeconds); err != nil {
		log.Errorf("set report cache [%s]: %s", key, err)
	}
}

// cached serves the report from the cache or computes and stores it.
// The key is taken before computing, so a write racing the computation
// leaves the result under an already stale generation.
func cached[T any](c *Cache, userID int, report, args string, compute func() (T, error)) (T, error) {
	if c == nil {
		return compute()
	}

	key := c.Key(userID, report, args)
	var res T
	if c.Get(key, &res) {
		log.Tracef("report cache hit [%s]", key)
		return res, nil
	}

	res, err := compute()
	if err != nil {
		return res, err
	}
	c.Set(key, res)
	return res, nil
}
