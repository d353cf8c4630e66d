package ledger

import "errors"

// Validation failures surfaced to the request layer. All of them are
// caller-correctable; none leave partial state behind.
var (
	ErrInsufficientFunds  = errors.New("insufficient purse balance")
	ErrInsufficientShares = errors.New("insufficient shares held")
	ErrNoSuchPosition     = errors.New("no position held for symbol")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidPrice       = errors.New("price must not be negative")
)
