// Package dashboard produces read-only derived views over the ledger state.
// Nothing in this package mutates holdings or the transaction log.
package dashboard

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/neueda/milkyway/internal/clients/prices"
	"github.com/neueda/milkyway/internal/modules/ledger"
)

// Service computes dashboard aggregates
type Service struct {
	ledger *ledger.Service
	oracle prices.Oracle
	log    zerolog.Logger
}

// NewService creates a new dashboard service
func NewService(ledgerService *ledger.Service, oracle prices.Oracle, log zerolog.Logger) *Service {
	return &Service{
		ledger: ledgerService,
		oracle: oracle,
		log:    log.With().Str("service", "dashboard").Logger(),
	}
}

// GetSnapshot computes the dashboard stats. A symbol the oracle has no data
// for contributes zero market value; the snapshot never fails on a missing
// price.
func (s *Service) GetSnapshot() (Snapshot, error) {
	holdings, purse, err := s.ledger.Snapshot()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read ledger snapshot: %w", err)
	}

	invested := 0.0
	marketValue := 0.0
	for _, h := range holdings {
		invested += h.CostBasis

		price, ok := s.oracle.CurrentPrice(h.Symbol)
		if !ok {
			s.log.Debug().Str("symbol", h.Symbol).Msg("No price, valuing holding at zero")
			continue
		}
		marketValue += float64(h.Quantity) * price
	}

	profitLoss := marketValue - invested
	changePercent := 0.0
	if invested != 0 {
		changePercent = profitLoss / invested * 100
	}

	return Snapshot{
		Purse:         purse,
		Invested:      invested,
		MarketValue:   marketValue,
		ProfitLoss:    profitLoss,
		ChangePercent: changePercent,
		TotalValue:    marketValue + purse,
	}, nil
}

// GetLiveValue sums the mark-to-market value of all holdings. Symbols
// without a usable price are skipped so one oracle failure cannot sink the
// whole aggregate.
func (s *Service) GetLiveValue() (float64, error) {
	holdings, err := s.ledger.Holdings()
	if err != nil {
		return 0, fmt.Errorf("failed to get holdings: %w", err)
	}

	total := 0.0
	for _, h := range holdings {
		price, ok := s.oracle.CurrentPrice(h.Symbol)
		if !ok || price <= 0 {
			continue
		}
		total += price * float64(h.Quantity)
	}

	return total, nil
}

// GetBreakdown groups current portfolio value by asset class: holdings count
// as stock at cost, the purse counts as cash.
func (s *Service) GetBreakdown() (Breakdown, error) {
	holdings, purse, err := s.ledger.Snapshot()
	if err != nil {
		return Breakdown{}, fmt.Errorf("failed to read ledger snapshot: %w", err)
	}

	entries := make([]AssetEntry, 0, len(holdings)+1)
	for _, h := range holdings {
		entries = append(entries, AssetEntry{
			AssetType: AssetStock,
			Quantity:  float64(h.Quantity),
			UnitCost:  h.AvgCostPerShare(),
		})
	}
	entries = append(entries, AssetEntry{AssetType: AssetCash, Quantity: 1, UnitCost: purse})

	return ComputeBreakdown(entries), nil
}

// ComputeBreakdown sums quantity * unit cost per asset class and derives
// each class's share of the total. Percentages are zero when the total is.
func ComputeBreakdown(entries []AssetEntry) Breakdown {
	var b Breakdown

	for _, e := range entries {
		value := e.Quantity * e.UnitCost
		b.TotalValue += value

		switch e.AssetType {
		case AssetStock:
			b.StockValue += value
		case AssetBond:
			b.BondValue += value
		case AssetCash:
			b.CashValue += value
		}
	}

	if b.TotalValue > 0 {
		b.StockPercentage = b.StockValue / b.TotalValue * 100
		b.BondPercentage = b.BondValue / b.TotalValue * 100
		b.CashPercentage = b.CashValue / b.TotalValue * 100
	}

	return b
}
