package ledger

import (
	"fmt"
	"strings"
)

// StartingCapital is the purse balance assumed when the transaction log is empty.
const StartingCapital = 100000.0

// EntryKind tags the monetary event recorded by a ledger entry
type EntryKind string

const (
	KindBuy         EntryKind = "BUY"
	KindSell        EntryKind = "SELL"
	KindPurseAdd    EntryKind = "PURSE_ADD"
	KindPurseDeduct EntryKind = "PURSE_DEDUCT"
)

// IsValid checks if the entry kind is valid
func (k EntryKind) IsValid() bool {
	switch k {
	case KindBuy, KindSell, KindPurseAdd, KindPurseDeduct:
		return true
	}
	return false
}

// HasSymbol returns true for kinds that carry an affected symbol
func (k EntryKind) HasSymbol() bool {
	return k == KindBuy || k == KindSell
}

// AdjustDirection is the direction of a one-share holding adjustment
type AdjustDirection string

const (
	AdjustIncrease AdjustDirection = "INCREASE"
	AdjustDecrease AdjustDirection = "DECREASE"
)

// AdjustDirectionFromString parses an adjustment direction. The UI sends
// PLUS/MINUS, older clients send INCREASE/DECREASE; both are accepted.
func AdjustDirectionFromString(value string) (AdjustDirection, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "PLUS", "INCREASE":
		return AdjustIncrease, nil
	case "MINUS", "DECREASE":
		return AdjustDecrease, nil
	default:
		return "", fmt.Errorf("invalid adjust direction: %q", value)
	}
}

// Holding is the current position in one symbol. CostBasis is the total
// amount paid for the currently held shares, not a per-share average.
type Holding struct {
	Symbol    string  `json:"symbol"`
	Quantity  int64   `json:"quantity"`
	CostBasis float64 `json:"cost_basis"`
}

// AvgCostPerShare derives the average cost of one held share.
// Only meaningful while Quantity > 0; zero-quantity holdings are never stored.
func (h Holding) AvgCostPerShare() float64 {
	if h.Quantity == 0 {
		return 0
	}
	return h.CostBasis / float64(h.Quantity)
}

// Entry is one append-only row of the transaction log. PurseAfter is the
// cash balance immediately after the event, so the latest row by ID is the
// current purse balance.
type Entry struct {
	ID         int64     `json:"id"`
	Reference  string    `json:"reference"`
	Date       string    `json:"date"`
	Kind       EntryKind `json:"kind"`
	Symbol     string    `json:"symbol,omitempty"`
	Value      float64   `json:"value"`
	PurseAfter float64   `json:"purse_after"`
	Settled    bool      `json:"settled"`
}
