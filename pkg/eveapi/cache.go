package eveapi

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheManager stores raw response bodies until the API's cachedUntil
type CacheManager interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Backend() string
}

// CacheKey builds the cache key for a call; url.Values.Encode sorts by key
func CacheKey(path string, params url.Values) string {
	path = strings.Trim(path, "/")
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}

// MemoryCacheManager keeps responses in process memory
type MemoryCacheManager struct {
	cache *cache.Cache
}

// NewMemoryCacheManager creates an in-memory cache that purges expired entries every cleanupInterval
func NewMemoryCacheManager(cleanupInterval time.Duration) *MemoryCacheManager {
	return &MemoryCacheManager{
		cache: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

func (m *MemoryCacheManager) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, found := m.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		m.cache.Delete(key)
		return nil, false, nil
	}
	return data, true, nil
}

func (m *MemoryCacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.cache.Set(key, data, ttl)
	return nil
}

func (m *MemoryCacheManager) Backend() string {
	return "memory"
}

// ItemCount returns the number of cached responses, including expired ones not yet purged
func (m *MemoryCacheManager) ItemCount() int {
	return m.cache.ItemCount()
}
