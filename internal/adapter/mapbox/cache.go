package mapbox

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
	"github.com/couchcryptid/incident-fusion-service/internal/observability"
)

// defaultMissTTL bounds how long an unmatched name is remembered. Feeds
// repeat the same headlines every cycle.
const defaultMissTTL = time.Hour

// CachedGeocoder wraps a Geocoder with an in-memory LRU keyed on the
// case-folded query. Matches stay until evicted; misses expire after
// missTTL. Errors are never cached.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lru
	clock   clockwork.Clock
	missTTL time.Duration
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   newLRU(maxEntries),
		clock:   clockwork.NewRealClock(),
		missTTL: defaultMissTTL,
		metrics: metrics,
	}
}

func cacheKey(name, region string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(region))
}

func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, name, region string) (domain.GeocodingResult, error) {
	key := cacheKey(name, region)
	if result, ok := c.cache.get(key, c.clock.Now()); ok {
		c.metrics.GeocodeCache.WithLabelValues("forward", "hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("forward", "miss").Inc()

	result, err := c.inner.ForwardGeocode(ctx, name, region)
	if err != nil {
		return result, err
	}
	var expires time.Time
	if result.FormattedAddress == "" {
		expires = c.clock.Now().Add(c.missTTL)
	}
	c.cache.put(key, result, expires)
	return result, nil
}

type cacheEntry struct {
	key     string
	result  domain.GeocodingResult
	expires time.Time // zero: never
}

// lru is a mutex-guarded least-recently-used map; the front of order is the
// most recently used entry.
type lru struct {
	mu    sync.Mutex
	max   int
	order *list.List
	items map[string]*list.Element
}

func newLRU(maxEntries int) *lru {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lru{
		max:   maxEntries,
		order: list.New(),
		items: make(map[string]*list.Element, maxEntries),
	}
}

func (l *lru) get(key string, now time.Time) (domain.GeocodingResult, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	el, ok := l.items[key]
	if !ok {
		return domain.GeocodingResult{}, false
	}
	e := el.Value.(*cacheEntry)
	if !e.expires.IsZero() && !now.Before(e.expires) {
		l.order.Remove(el)
		delete(l.items, key)
		return domain.GeocodingResult{}, false
	}
	l.order.MoveToFront(el)
	return e.result, true
}

func (l *lru) put(key string, result domain.GeocodingResult, expires time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := &cacheEntry{key: key, result: result, expires: expires}
	if el, ok := l.items[key]; ok {
		el.Value = entry
		l.order.MoveToFront(el)
		return
	}
	l.items[key] = l.order.PushFront(entry)

	if l.order.Len() > l.max {
		oldest := l.order.Back()
		l.order.Remove(oldest)
		delete(l.items, oldest.Value.(*cacheEntry).key)
	}
}

func (l *lru) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order.Len()
}
