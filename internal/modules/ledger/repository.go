package ledger

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx, so repository methods can
// run standalone or inside an engine transaction.
type dbtx interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Repository handles holdings and transaction log database operations
type Repository struct {
	log zerolog.Logger
}

// NewRepository creates a new ledger repository
func NewRepository(log zerolog.Logger) *Repository {
	return &Repository{
		log: log.With().Str("repo", "ledger").Logger(),
	}
}

// GetHolding returns the holding for a symbol, or nil if none is held
func (r *Repository) GetHolding(q dbtx, symbol string) (*Holding, error) {
	query := "SELECT symbol, quantity, cost_basis FROM holdings WHERE symbol = ?"

	var h Holding
	err := q.QueryRow(query, symbol).Scan(&h.Symbol, &h.Quantity, &h.CostBasis)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}

	return &h, nil
}

// ListHoldings returns all current holdings ordered by symbol
func (r *Repository) ListHoldings(q dbtx) ([]Holding, error) {
	query := "SELECT symbol, quantity, cost_basis FROM holdings ORDER BY symbol"

	rows, err := q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]Holding, 0)
	for rows.Next() {
		var h Holding
		if err := rows.Scan(&h.Symbol, &h.Quantity, &h.CostBasis); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// UpsertHolding inserts or replaces the holding row for a symbol
func (r *Repository) UpsertHolding(q dbtx, h Holding) error {
	query := `
		INSERT INTO holdings (symbol, quantity, cost_basis)
		VALUES (?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			quantity = excluded.quantity,
			cost_basis = excluded.cost_basis
	`

	if _, err := q.Exec(query, h.Symbol, h.Quantity, h.CostBasis); err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}

	return nil
}

// DeleteHolding removes the holding row for a symbol
func (r *Repository) DeleteHolding(q dbtx, symbol string) error {
	if _, err := q.Exec("DELETE FROM holdings WHERE symbol = ?", symbol); err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	return nil
}

// LatestPurse returns the purse_after of the most recent log entry by id.
// An empty log means the account is untouched, so the starting capital applies.
func (r *Repository) LatestPurse(q dbtx) (float64, error) {
	query := "SELECT purse_after FROM transactions ORDER BY id DESC LIMIT 1"

	var purse float64
	err := q.QueryRow(query).Scan(&purse)
	if errors.Is(err, sql.ErrNoRows) {
		return StartingCapital, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest purse: %w", err)
	}

	return purse, nil
}

// AppendEntry inserts a new transaction log row and fills in the assigned
// id and reference on the passed entry.
func (r *Repository) AppendEntry(q dbtx, e *Entry) error {
	if !e.Kind.IsValid() {
		return fmt.Errorf("invalid entry kind: %q", e.Kind)
	}

	e.Reference = uuid.New().String()

	query := `
		INSERT INTO transactions (reference, date, kind, symbol, value, purse_after, settled)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := q.Exec(query,
		e.Reference,
		e.Date,
		string(e.Kind),
		nullString(e.Symbol),
		e.Value,
		e.PurseAfter,
		boolToInt(e.Settled),
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get entry id: %w", err)
	}
	e.ID = id

	r.log.Debug().
		Int64("id", e.ID).
		Str("kind", string(e.Kind)).
		Float64("value", e.Value).
		Float64("purse_after", e.PurseAfter).
		Msg("Ledger entry appended")

	return nil
}

// ListEntries returns log entries in append order (ascending id).
// A limit <= 0 returns the full log.
func (r *Repository) ListEntries(q dbtx, limit int) ([]Entry, error) {
	query := `
		SELECT id, reference, date, kind, symbol, value, purse_after, settled
		FROM transactions ORDER BY id
	`
	args := []interface{}{}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var kind string
		var symbol sql.NullString
		var settled int

		if err := rows.Scan(&e.ID, &e.Reference, &e.Date, &kind, &symbol, &e.Value, &e.PurseAfter, &settled); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		e.Kind = EntryKind(kind)
		if symbol.Valid {
			e.Symbol = symbol.String
		}
		e.Settled = settled == 1

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return entries, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
