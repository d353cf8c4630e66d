// Package ledger keeps the cash purse, per-symbol holdings and the
// append-only transaction log mutually consistent. Every holdings mutation
// is paired with exactly one new log entry inside the same transaction, and
// all mutations are funneled through the Service.
package ledger

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Service serializes all purse and holdings mutations
type Service struct {
	db   *sql.DB
	repo *Repository
	mu   sync.Mutex // one in-flight mutating operation at a time
	log  zerolog.Logger
}

// NewService creates a new ledger service
func NewService(db *sql.DB, repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		db:   db,
		repo: repo,
		log:  log.With().Str("service", "ledger").Logger(),
	}
}

// CurrentPurse returns the cash balance: the purse_after of the latest log
// entry, or the starting capital when the log is empty.
func (s *Service) CurrentPurse() (float64, error) {
	return s.repo.LatestPurse(s.db)
}

// Holdings returns all current positions
func (s *Service) Holdings() ([]Holding, error) {
	return s.repo.ListHoldings(s.db)
}

// Transactions returns the log in append order. limit <= 0 returns everything.
func (s *Service) Transactions(limit int) ([]Entry, error) {
	return s.repo.ListEntries(s.db, limit)
}

// Snapshot returns all holdings and the purse balance from one consistent
// point-in-time view, so aggregators never see a holdings write without its
// paired log entry.
func (s *Service) Snapshot() ([]Holding, float64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	holdings, err := s.repo.ListHoldings(tx)
	if err != nil {
		return nil, 0, err
	}

	purse, err := s.repo.LatestPurse(tx)
	if err != nil {
		return nil, 0, err
	}

	return holdings, purse, nil
}

// Buy purchases quantity shares of symbol at price. The full cost must be
// covered by the purse; spending it down to exactly zero is allowed.
func (s *Service) Buy(symbol string, quantity int64, price float64) error {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if price < 0 {
		return ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	purse, err := s.repo.LatestPurse(tx)
	if err != nil {
		return err
	}

	cost := float64(quantity) * price
	if cost > purse {
		return ErrInsufficientFunds
	}

	holding, err := s.repo.GetHolding(tx, symbol)
	if err != nil {
		return err
	}

	if holding != nil {
		holding.Quantity += quantity
		holding.CostBasis += cost
	} else {
		holding = &Holding{Symbol: symbol, Quantity: quantity, CostBasis: cost}
	}

	if err := s.repo.UpsertHolding(tx, *holding); err != nil {
		return err
	}

	entry := &Entry{
		Date:       today(),
		Kind:       KindBuy,
		Symbol:     symbol,
		Value:      cost,
		PurseAfter: purse - cost,
		Settled:    true,
	}
	if err := s.repo.AppendEntry(tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit buy: %w", err)
	}

	s.log.Info().
		Str("symbol", symbol).
		Int64("quantity", quantity).
		Float64("cost", cost).
		Float64("purse", entry.PurseAfter).
		Msg("Buy executed")

	return nil
}

// Sell disposes of quantity shares of symbol at price. Cost basis is reduced
// by the average cost of the sold shares; a position sold down to zero is
// deleted rather than kept as a dust row.
func (s *Service) Sell(symbol string, quantity int64, price float64) error {
	symbol = normalizeSymbol(symbol)
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if price < 0 {
		return ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	holding, err := s.repo.GetHolding(tx, symbol)
	if err != nil {
		return err
	}
	if holding == nil {
		return ErrNoSuchPosition
	}
	if quantity > holding.Quantity {
		return ErrInsufficientShares
	}

	costRemoved := holding.AvgCostPerShare() * float64(quantity)
	proceeds := float64(quantity) * price

	holding.Quantity -= quantity
	holding.CostBasis -= costRemoved

	if holding.Quantity == 0 {
		// Drop the row entirely so no floating-point dust survives
		if err := s.repo.DeleteHolding(tx, symbol); err != nil {
			return err
		}
	} else {
		if err := s.repo.UpsertHolding(tx, *holding); err != nil {
			return err
		}
	}

	purse, err := s.repo.LatestPurse(tx)
	if err != nil {
		return err
	}

	entry := &Entry{
		Date:       today(),
		Kind:       KindSell,
		Symbol:     symbol,
		Value:      proceeds,
		PurseAfter: purse + proceeds,
		Settled:    true,
	}
	if err := s.repo.AppendEntry(tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sell: %w", err)
	}

	s.log.Info().
		Str("symbol", symbol).
		Int64("quantity", quantity).
		Float64("proceeds", proceeds).
		Float64("purse", entry.PurseAfter).
		Msg("Sell executed")

	return nil
}

// AdjustByOne is the quick-adjust control: a single-share buy or sell at the
// current market price. Adjusting a symbol that is not held is a tolerated
// no-op, not an error.
func (s *Service) AdjustByOne(symbol string, direction AdjustDirection, price float64) error {
	symbol = normalizeSymbol(symbol)
	if price < 0 {
		return ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	holding, err := s.repo.GetHolding(tx, symbol)
	if err != nil {
		return err
	}
	if holding == nil {
		return nil
	}

	purse, err := s.repo.LatestPurse(tx)
	if err != nil {
		return err
	}

	var entry *Entry

	switch direction {
	case AdjustIncrease:
		if purse < price {
			return ErrInsufficientFunds
		}

		holding.Quantity++
		holding.CostBasis += price
		if err := s.repo.UpsertHolding(tx, *holding); err != nil {
			return err
		}

		entry = &Entry{
			Date:       today(),
			Kind:       KindBuy,
			Symbol:     symbol,
			Value:      price,
			PurseAfter: purse - price,
			Settled:    true,
		}

	case AdjustDecrease:
		if holding.Quantity <= 0 {
			return nil
		}

		// Average cost comes from the pre-decrement quantity
		avgCost := holding.AvgCostPerShare()
		holding.Quantity--
		holding.CostBasis -= avgCost

		if holding.Quantity == 0 {
			if err := s.repo.DeleteHolding(tx, symbol); err != nil {
				return err
			}
		} else {
			if err := s.repo.UpsertHolding(tx, *holding); err != nil {
				return err
			}
		}

		entry = &Entry{
			Date:       today(),
			Kind:       KindSell,
			Symbol:     symbol,
			Value:      price,
			PurseAfter: purse + price,
			Settled:    true,
		}

	default:
		return fmt.Errorf("invalid adjust direction: %q", direction)
	}

	if err := s.repo.AppendEntry(tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit adjustment: %w", err)
	}

	s.log.Info().
		Str("symbol", symbol).
		Str("direction", string(direction)).
		Float64("price", price).
		Float64("purse", entry.PurseAfter).
		Msg("Holding adjusted")

	return nil
}

// Deposit adds cash to the purse
func (s *Service) Deposit(amount float64) error {
	return s.movePurse(amount, KindPurseAdd)
}

// Withdraw removes cash from the purse. Withdrawing the full balance is allowed.
func (s *Service) Withdraw(amount float64) error {
	return s.movePurse(amount, KindPurseDeduct)
}

func (s *Service) movePurse(amount float64, kind EntryKind) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	purse, err := s.repo.LatestPurse(tx)
	if err != nil {
		return err
	}

	newPurse := purse + amount
	if kind == KindPurseDeduct {
		if amount > purse {
			return ErrInsufficientFunds
		}
		newPurse = purse - amount
	}

	entry := &Entry{
		Date:       today(),
		Kind:       kind,
		Value:      amount,
		PurseAfter: newPurse,
		Settled:    true,
	}
	if err := s.repo.AppendEntry(tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit purse movement: %w", err)
	}

	s.log.Info().
		Str("kind", string(kind)).
		Float64("amount", amount).
		Float64("purse", newPurse).
		Msg("Purse updated")

	return nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func today() string {
	return time.Now().Format("2006-01-02")
}
