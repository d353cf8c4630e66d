package prices

import (
	"sync"
	"time"
)

// TTLCurrentPrice bounds how long a cached quote is served before the
// oracle is asked again.
const TTLCurrentPrice = 10 * time.Minute

type cachedQuote struct {
	price     float64
	ok        bool
	expiresAt time.Time
}

// CachedOracle fronts an Oracle with a TTL quote cache. Negative lookups
// are cached too, so a symbol the oracle has no data for does not hammer
// the API on every dashboard refresh.
type CachedOracle struct {
	oracle Oracle
	ttl    time.Duration

	mu     sync.RWMutex
	quotes map[string]cachedQuote
}

// NewCachedOracle wraps an oracle with a quote cache
func NewCachedOracle(oracle Oracle, ttl time.Duration) *CachedOracle {
	return &CachedOracle{
		oracle: oracle,
		ttl:    ttl,
		quotes: make(map[string]cachedQuote),
	}
}

// CurrentPrice serves from cache when fresh, otherwise asks the oracle and
// stores the result.
func (c *CachedOracle) CurrentPrice(symbol string) (float64, bool) {
	c.mu.RLock()
	q, found := c.quotes[symbol]
	c.mu.RUnlock()

	if found && time.Now().Before(q.expiresAt) {
		return q.price, q.ok
	}

	return c.Refresh(symbol)
}

// Refresh bypasses the cache, asks the oracle and stores the fresh quote
func (c *CachedOracle) Refresh(symbol string) (float64, bool) {
	price, ok := c.oracle.CurrentPrice(symbol)

	c.mu.Lock()
	c.quotes[symbol] = cachedQuote{
		price:     price,
		ok:        ok,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()

	return price, ok
}
