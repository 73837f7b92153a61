package openmeteo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flightwx/uav-wx-advisor/internal/domain"
	"github.com/flightwx/uav-wx-advisor/internal/observability"
	"github.com/flightwx/uav-wx-advisor/internal/pipeline"
)

// cacheTTL bounds how long a fetched forecast is reused. Open-Meteo refreshes
// hourly, so a shorter TTL only adds API load.
const cacheTTL = 15 * time.Minute

// CachedProvider wraps a ForecastProvider with an in-memory LRU cache.
type CachedProvider struct {
	inner   pipeline.ForecastProvider
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a forecast provider.
func NewCachedProvider(inner pipeline.ForecastProvider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedProvider) Forecast(ctx context.Context, lat, lon float64) (domain.ForecastBundle, error) {
	key := fmt.Sprintf("%.4f,%.4f", lat, lon)
	if bundle, ok := c.cache.get(key); ok {
		c.metrics.ProviderCache.WithLabelValues("hit").Inc()
		return bundle, nil
	}
	c.metrics.ProviderCache.WithLabelValues("miss").Inc()

	bundle, err := c.inner.Forecast(ctx, lat, lon)
	if err != nil {
		return bundle, err
	}
	// Only cache populated responses so transient empty fetches can be retried.
	if len(bundle.Hours) > 0 {
		c.cache.put(key, bundle)
	}
	return bundle, nil
}

// lruCache is a simple thread-safe LRU cache for forecast bundles with a
// fixed TTL.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     domain.ForecastBundle
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.ForecastBundle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.ForecastBundle{}, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return domain.ForecastBundle{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.ForecastBundle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(cacheTTL)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
