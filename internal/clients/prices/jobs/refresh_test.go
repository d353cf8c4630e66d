package jobs

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/neueda/milkyway/internal/clients/prices"
	"github.com/neueda/milkyway/internal/modules/watchlist"
)

type fixedOracle struct {
	prices map[string]float64
	calls  int
}

func (o *fixedOracle) CurrentPrice(symbol string) (float64, bool) {
	o.calls++
	price, found := o.prices[symbol]
	return price, found && price > 0
}

func setupWatchlist(t *testing.T, symbols ...string) *watchlist.Repository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, watchlist.InitSchema(db))
	t.Cleanup(func() { db.Close() })

	repo := watchlist.NewRepository(db, zerolog.Nop())
	for _, s := range symbols {
		require.NoError(t, repo.Add(s))
	}
	return repo
}

func TestRefreshJob_WarmsCacheForWatchedSymbols(t *testing.T) {
	repo := setupWatchlist(t, "AAPL", "MSFT")
	oracle := &fixedOracle{prices: map[string]float64{"AAPL": 150.0, "MSFT": 300.0}}
	cache := prices.NewCachedOracle(oracle, time.Minute)

	job := NewRefreshJob(cache, repo, zerolog.Nop())
	require.NoError(t, job.Run())
	assert.Equal(t, 2, oracle.calls)

	// Subsequent reads hit the warmed cache, not the oracle
	price, ok := cache.CurrentPrice("AAPL")
	require.True(t, ok)
	assert.InDelta(t, 150.0, price, 1e-9)
	assert.Equal(t, 2, oracle.calls)
}

func TestRefreshJob_UnavailableSymbolsDontFailTheJob(t *testing.T) {
	repo := setupWatchlist(t, "NODATA")
	cache := prices.NewCachedOracle(&fixedOracle{}, time.Minute)

	job := NewRefreshJob(cache, repo, zerolog.Nop())
	assert.NoError(t, job.Run())
}

func TestRefreshJob_Name(t *testing.T) {
	job := NewRefreshJob(nil, nil, zerolog.Nop())
	assert.Equal(t, "quote_refresh", job.Name())
}
