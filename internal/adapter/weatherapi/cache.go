package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-outlook-service/internal/domain"
	"github.com/couchcryptid/weather-outlook-service/internal/observability"
)

// Upstream is the subset of the remote API worth caching.
type Upstream interface {
	domain.ProbabilitySource
	domain.LocationResolver
}

// CachedClient wraps an Upstream with in-memory LRU caches for probability
// responses and coordinate lookups. Entries expire after ttl.
type CachedClient struct {
	inner     Upstream
	responses *lruCache[domain.WeatherResponse]
	locations *lruCache[domain.Location]
	metrics   *observability.Metrics
}

// NewCachedClient creates a cache decorator around an upstream client.
func NewCachedClient(inner Upstream, maxEntries int, ttl time.Duration, metrics *observability.Metrics) *CachedClient {
	return newCachedClient(inner, maxEntries, ttl, metrics, clockwork.NewRealClock())
}

func newCachedClient(inner Upstream, maxEntries int, ttl time.Duration, metrics *observability.Metrics, clock clockwork.Clock) *CachedClient {
	return &CachedClient{
		inner:     inner,
		responses: newLRUCache[domain.WeatherResponse](maxEntries, ttl, clock),
		locations: newLRUCache[domain.Location](maxEntries, ttl, clock),
		metrics:   metrics,
	}
}

func (c *CachedClient) GetProbabilities(ctx context.Context, q domain.WeatherQuery) (domain.WeatherResponse, error) {
	key, err := queryKey(q)
	if err != nil {
		return domain.WeatherResponse{}, err
	}
	if resp, ok := c.responses.get(key); ok {
		c.metrics.WeatherAPICache.WithLabelValues(endpointProbability, "hit").Inc()
		return resp, nil
	}
	c.metrics.WeatherAPICache.WithLabelValues(endpointProbability, "miss").Inc()

	resp, err := c.inner.GetProbabilities(ctx, q)
	if err != nil {
		return resp, err
	}
	c.responses.put(key, resp)
	return resp, nil
}

func (c *CachedClient) LocationByCoordinates(ctx context.Context, lat, lon float64) (domain.Location, error) {
	key := fmt.Sprintf("loc:%.4f,%.4f", lat, lon)
	if loc, ok := c.locations.get(key); ok {
		c.metrics.WeatherAPICache.WithLabelValues(endpointByCoordinates, "hit").Inc()
		return loc, nil
	}
	c.metrics.WeatherAPICache.WithLabelValues(endpointByCoordinates, "miss").Inc()

	loc, err := c.inner.LocationByCoordinates(ctx, lat, lon)
	if err != nil {
		return loc, err
	}
	// Only cache named results so empty lookups can be retried.
	if loc.Name != "" {
		c.locations.put(key, loc)
	}
	return loc, nil
}

// queryKey is the canonical JSON encoding of a query. Struct fields marshal
// in declaration order, so equal queries yield equal keys.
func queryKey(q domain.WeatherQuery) (string, error) {
	b, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	return "prob:" + string(b), nil
}

// lruCache is a simple thread-safe LRU cache with per-entry expiry.
type lruCache[V any] struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	prev      *entry[V]
	next      *entry[V]
}

func newLRUCache[V any](maxEntries int, ttl time.Duration, clock clockwork.Clock) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.ttl > 0 && !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	if c.maxEntries <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
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

func (c *lruCache[V]) remove(e *entry[V]) {
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

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
