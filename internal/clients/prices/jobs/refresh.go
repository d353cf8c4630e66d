// Package jobs contains background jobs for the price oracle.
package jobs

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/neueda/milkyway/internal/clients/prices"
	"github.com/neueda/milkyway/internal/modules/watchlist"
)

// RefreshJob warms the quote cache for all watched symbols so dashboard
// reads mostly hit fresh cache entries.
type RefreshJob struct {
	cache         *prices.CachedOracle
	watchlistRepo *watchlist.Repository
	log           zerolog.Logger
}

// NewRefreshJob creates a new quote refresh job
func NewRefreshJob(cache *prices.CachedOracle, watchlistRepo *watchlist.Repository, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		cache:         cache,
		watchlistRepo: watchlistRepo,
		log:           log.With().Str("job", "quote_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "quote_refresh"
}

// Run refreshes quotes for every watched symbol. Symbols the oracle has no
// data for are logged and skipped; the job itself only fails when the
// watchlist cannot be read.
func (j *RefreshJob) Run() error {
	symbols, err := j.watchlistRepo.List()
	if err != nil {
		return fmt.Errorf("failed to load watchlist: %w", err)
	}

	refreshed := 0
	for _, symbol := range symbols {
		if _, ok := j.cache.Refresh(symbol); ok {
			refreshed++
		} else {
			j.log.Debug().Str("symbol", symbol).Msg("No quote available")
		}
	}

	j.log.Info().
		Int("symbols", len(symbols)).
		Int("refreshed", refreshed).
		Msg("Quote cache refreshed")

	return nil
}
