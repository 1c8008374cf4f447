// services/pricing/internal/service/suggestion_cache.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/pricing/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/clock"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/redis"
)

const cachePrefix = "price:"

// SuggestionCache keeps suggestions in memory and, when configured, in
// Redis. Keys embed the model version, so a retrain never serves stale prices.
type SuggestionCache struct {
	redis    *redis.Client
	logger   *zap.Logger
	memCache *MemoryCache
	ttl      time.Duration
}

// MemoryCache provides in-memory caching of suggestions
type MemoryCache struct {
	mu     sync.RWMutex
	data   map[string]cacheEntry
	maxAge time.Duration
	clock  clock.Clock
}

type cacheEntry struct {
	suggestion models.PriceSuggestion
	cachedAt   time.Time
}

// NewSuggestionCache builds the cache. redisClient may be nil.
func NewSuggestionCache(redisClient *redis.Client, ttl time.Duration, clk clock.Clock, logger *zap.Logger) *SuggestionCache {
	return &SuggestionCache{
		redis:    redisClient,
		logger:   logger,
		memCache: NewMemoryCache(ttl, clk),
		ttl:      ttl,
	}
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(maxAge time.Duration, clk clock.Clock) *MemoryCache {
	return &MemoryCache{
		data:   make(map[string]cacheEntry),
		maxAge: maxAge,
		clock:  clk,
	}
}

// SuggestionKey builds the cache key for a request under a model version
func SuggestionKey(version int, req models.SuggestionRequest) string {
	return fmt.Sprintf("%sv%d:%d:%d:%d:%d:%d", cachePrefix, version,
		req.Month, req.Weekday, req.GuestCount, req.Nights, req.LeadTime())
}

// Get checks memory first, then Redis. A Redis hit is copied into memory.
func (sc *SuggestionCache) Get(ctx context.Context, key string) (models.PriceSuggestion, bool) {
	if s, ok := sc.memCache.Get(key); ok {
		cacheLookups.WithLabelValues("memory", "hit").Inc()
		return s, true
	}
	if sc.redis == nil {
		cacheLookups.WithLabelValues("memory", "miss").Inc()
		return models.PriceSuggestion{}, false
	}

	data, err := sc.redis.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			sc.logger.Warn("redis lookup failed", zap.String("key", key), zap.Error(err))
		}
		cacheLookups.WithLabelValues("redis", "miss").Inc()
		return models.PriceSuggestion{}, false
	}

	var s models.PriceSuggestion
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		sc.logger.Warn("corrupt cached suggestion", zap.String("key", key), zap.Error(err))
		cacheLookups.WithLabelValues("redis", "miss").Inc()
		return models.PriceSuggestion{}, false
	}
	cacheLookups.WithLabelValues("redis", "hit").Inc()
	sc.memCache.Set(key, s)
	return s, true
}

// Set stores in both layers. Redis failures are logged only.
func (sc *SuggestionCache) Set(ctx context.Context, key string, s models.PriceSuggestion) {
	sc.memCache.Set(key, s)
	if sc.redis == nil {
		return
	}

	data, err := json.Marshal(s)
	if err != nil {
		sc.logger.Error("failed to marshal suggestion", zap.Error(err))
		return
	}
	if err := sc.redis.Set(ctx, key, data, sc.ttl); err != nil {
		sc.logger.Warn("failed to cache suggestion in redis", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached suggestion.
func (sc *SuggestionCache) Invalidate(ctx context.Context) {
	sc.memCache.Clear()
	if sc.redis == nil {
		return
	}
	if err := sc.redis.DeletePrefix(ctx, cachePrefix); err != nil {
		sc.logger.Warn("failed to invalidate redis suggestions", zap.Error(err))
	}
}

// RunJanitor evicts expired memory entries every interval until ctx ends.
func (sc *SuggestionCache) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sc.memCache.Evict(); n > 0 {
				sc.logger.Debug("evicted expired suggestions", zap.Int("count", n))
			}
		}
	}
}

// Stats returns cache statistics
func (sc *SuggestionCache) Stats() map[string]interface{} {
	return map[string]interface{}{
		"memory_cache_size": sc.memCache.Len(),
		"ttl":               sc.ttl.String(),
		"redis_enabled":     sc.redis != nil,
	}
}

// Get retrieves from memory cache
func (mc *MemoryCache) Get(key string) (models.PriceSuggestion, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	entry, ok := mc.data[key]
	if !ok || mc.clock.Now().Sub(entry.cachedAt) > mc.maxAge {
		return models.PriceSuggestion{}, false
	}
	return entry.suggestion, true
}

// Set stores in memory cache
func (mc *MemoryCache) Set(key string, s models.PriceSuggestion) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.data[key] = cacheEntry{suggestion: s, cachedAt: mc.clock.Now()}
}

// Clear drops every entry
func (mc *MemoryCache) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.data = make(map[string]cacheEntry)
}

// Evict removes expired entries and returns how many were removed
func (mc *MemoryCache) Evict() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.clock.Now()
	n := 0
	for key, entry := range mc.data {
		if now.Sub(entry.cachedAt) > mc.maxAge {
			delete(mc.data, key)
			n++
		}
	}
	return n
}

func (mc *MemoryCache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.data)
}
