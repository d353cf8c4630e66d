package prices

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentPrice_LastCloseWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL", r.URL.Query().Get("ticker"))
		w.Write([]byte(`{"price_data":{"close":[148.2,149.9,151.3]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zerolog.Nop())

	price, ok := client.CurrentPrice("AAPL")
	require.True(t, ok)
	assert.InDelta(t, 151.3, price, 1e-9)
}

func TestCurrentPrice_NoData(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"empty close series", `{"price_data":{"close":[]}}`, http.StatusOK},
		{"missing price_data", `{}`, http.StatusOK},
		{"garbage payload", `not json`, http.StatusOK},
		{"server error", `{}`, http.StatusInternalServerError},
		{"zero price", `{"price_data":{"close":[0]}}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, time.Second, zerolog.Nop())

			price, ok := client.CurrentPrice("AAPL")
			assert.False(t, ok)
			assert.Zero(t, price)
		})
	}
}

func TestCurrentPrice_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond, zerolog.Nop())

	price, ok := client.CurrentPrice("AAPL")
	assert.False(t, ok)
	assert.Zero(t, price)
}

// countingOracle counts lookups so cache hits are observable
type countingOracle struct {
	price float64
	ok    bool
	calls int
}

func (o *countingOracle) CurrentPrice(symbol string) (float64, bool) {
	o.calls++
	return o.price, o.ok
}

func TestCachedOracle_ServesFromCache(t *testing.T) {
	oracle := &countingOracle{price: 100.0, ok: true}
	cache := NewCachedOracle(oracle, time.Minute)

	for i := 0; i < 3; i++ {
		price, ok := cache.CurrentPrice("AAPL")
		require.True(t, ok)
		assert.InDelta(t, 100.0, price, 1e-9)
	}

	assert.Equal(t, 1, oracle.calls)
}

func TestCachedOracle_CachesNegativeLookups(t *testing.T) {
	oracle := &countingOracle{price: 0, ok: false}
	cache := NewCachedOracle(oracle, time.Minute)

	for i := 0; i < 3; i++ {
		_, ok := cache.CurrentPrice("NODATA")
		assert.False(t, ok)
	}

	assert.Equal(t, 1, oracle.calls)
}

func TestCachedOracle_ExpiredEntryRefetches(t *testing.T) {
	oracle := &countingOracle{price: 100.0, ok: true}
	cache := NewCachedOracle(oracle, -time.Second) // everything already expired

	cache.CurrentPrice("AAPL")
	cache.CurrentPrice("AAPL")

	assert.Equal(t, 2, oracle.calls)
}

func TestCachedOracle_RefreshBypassesCache(t *testing.T) {
	oracle := &countingOracle{price: 100.0, ok: true}
	cache := NewCachedOracle(oracle, time.Minute)

	cache.CurrentPrice("AAPL")
	cache.Refresh("AAPL")

	assert.Equal(t, 2, oracle.calls)
}
