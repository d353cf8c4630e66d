package dashboard

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/neueda/milkyway/internal/modules/ledger"
)

// stubOracle serves fixed prices; absent symbols report no data
type stubOracle struct {
	prices map[string]float64
	calls  int
}

func (o *stubOracle) CurrentPrice(symbol string) (float64, bool) {
	o.calls++
	price, found := o.prices[symbol]
	if !found || price <= 0 {
		return 0, false
	}
	return price, true
}

func newTestLedger(t *testing.T) *ledger.Service {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, ledger.InitSchema(db))
	t.Cleanup(func() { db.Close() })

	return ledger.NewService(db, ledger.NewRepository(zerolog.Nop()), zerolog.Nop())
}

func TestGetSnapshot(t *testing.T) {
	ledgerService := newTestLedger(t)
	require.NoError(t, ledgerService.Buy("AAPL", 10, 150.0))
	require.NoError(t, ledgerService.Buy("MSFT", 2, 300.0))

	oracle := &stubOracle{prices: map[string]float64{"AAPL": 200.0, "MSFT": 250.0}}
	service := NewService(ledgerService, oracle, zerolog.Nop())

	snapshot, err := service.GetSnapshot()
	require.NoError(t, err)

	assert.InDelta(t, 2100.0, snapshot.Invested, 1e-9)
	assert.InDelta(t, 2500.0, snapshot.MarketValue, 1e-9) // 10*200 + 2*250
	assert.InDelta(t, 400.0, snapshot.ProfitLoss, 1e-9)
	assert.InDelta(t, 400.0/2100.0*100, snapshot.ChangePercent, 1e-9)
	assert.InDelta(t, 97900.0, snapshot.Purse, 1e-9)
	assert.InDelta(t, snapshot.MarketValue+snapshot.Purse, snapshot.TotalValue, 1e-9)
}

func TestGetSnapshot_MissingPriceCountsAsZero(t *testing.T) {
	ledgerService := newTestLedger(t)
	require.NoError(t, ledgerService.Buy("AAPL", 10, 150.0))
	require.NoError(t, ledgerService.Buy("NODATA", 5, 100.0))

	oracle := &stubOracle{prices: map[string]float64{"AAPL": 200.0}}
	service := NewService(ledgerService, oracle, zerolog.Nop())

	snapshot, err := service.GetSnapshot()
	require.NoError(t, err)

	// NODATA contributes nothing to market value but stays in invested
	assert.InDelta(t, 2000.0, snapshot.Invested, 1e-9)
	assert.InDelta(t, 2000.0, snapshot.MarketValue, 1e-9)
}

func TestGetSnapshot_EmptyPortfolio(t *testing.T) {
	ledgerService := newTestLedger(t)
	service := NewService(ledgerService, &stubOracle{}, zerolog.Nop())

	snapshot, err := service.GetSnapshot()
	require.NoError(t, err)

	assert.Zero(t, snapshot.Invested)
	assert.Zero(t, snapshot.MarketValue)
	assert.Zero(t, snapshot.ChangePercent, "zero invested must not divide by zero")
	assert.Equal(t, 100000.0, snapshot.Purse)
}

func TestGetSnapshot_ReadsAreIdempotent(t *testing.T) {
	ledgerService := newTestLedger(t)
	require.NoError(t, ledgerService.Buy("AAPL", 10, 150.0))

	oracle := &stubOracle{prices: map[string]float64{"AAPL": 180.0}}
	service := NewService(ledgerService, oracle, zerolog.Nop())

	first, err := service.GetSnapshot()
	require.NoError(t, err)
	second, err := service.GetSnapshot()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGetLiveValue_SkipsUnavailableSymbols(t *testing.T) {
	ledgerService := newTestLedger(t)
	require.NoError(t, ledgerService.Buy("AAPL", 10, 150.0))
	require.NoError(t, ledgerService.Buy("NODATA", 5, 100.0))

	oracle := &stubOracle{prices: map[string]float64{"AAPL": 200.0}}
	service := NewService(ledgerService, oracle, zerolog.Nop())

	value, err := service.GetLiveValue()
	require.NoError(t, err)
	assert.InDelta(t, 2000.0, value, 1e-9)
}

func TestComputeBreakdown(t *testing.T) {
	entries := []AssetEntry{
		{AssetType: AssetStock, Quantity: 10, UnitCost: 150.0},
		{AssetType: AssetBond, Quantity: 5, UnitCost: 100.0},
		{AssetType: AssetCash, Quantity: 1, UnitCost: 500.0},
	}

	b := ComputeBreakdown(entries)

	assert.InDelta(t, 2500.0, b.TotalValue, 1e-9)
	assert.InDelta(t, 1500.0, b.StockValue, 1e-9)
	assert.InDelta(t, 500.0, b.BondValue, 1e-9)
	assert.InDelta(t, 500.0, b.CashValue, 1e-9)
	assert.InDelta(t, 60.0, b.StockPercentage, 1e-9)
	assert.InDelta(t, 20.0, b.BondPercentage, 1e-9)
	assert.InDelta(t, 20.0, b.CashPercentage, 1e-9)
}

func TestComputeBreakdown_ZeroTotal(t *testing.T) {
	b := ComputeBreakdown(nil)

	assert.Zero(t, b.TotalValue)
	assert.Zero(t, b.StockPercentage)
	assert.Zero(t, b.BondPercentage)
	assert.Zero(t, b.CashPercentage)
}

func TestGetBreakdown_HoldingsAsStockPurseAsCash(t *testing.T) {
	ledgerService := newTestLedger(t)
	require.NoError(t, ledgerService.Buy("AAPL", 10, 150.0))

	service := NewService(ledgerService, &stubOracle{}, zerolog.Nop())

	b, err := service.GetBreakdown()
	require.NoError(t, err)

	assert.InDelta(t, 1500.0, b.StockValue, 1e-9)
	assert.InDelta(t, 98500.0, b.CashValue, 1e-9)
	assert.InDelta(t, 100000.0, b.TotalValue, 1e-9)
	assert.Zero(t, b.BondValue)
}
