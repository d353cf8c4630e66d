// Package watchlist tracks symbols the user wants quotes for without
// holding a position in them.
package watchlist

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Schema defines the watchlist table
const Schema = `
CREATE TABLE IF NOT EXISTS watchlist (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    symbol TEXT UNIQUE NOT NULL
);
`

// InitSchema ensures the watchlist table exists
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}

// Repository handles watchlist database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new watchlist repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "watchlist").Logger(),
	}
}

// List returns all watched symbols ordered by symbol
func (r *Repository) List() ([]string, error) {
	rows, err := r.db.Query("SELECT symbol FROM watchlist ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	symbols := make([]string, 0)
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist row: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist: %w", err)
	}

	return symbols, nil
}

// Add inserts a symbol into the watchlist. Re-adding a watched symbol is a no-op.
func (r *Repository) Add(symbol string) error {
	symbol = normalize(symbol)
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}

	if _, err := r.db.Exec("INSERT OR IGNORE INTO watchlist (symbol) VALUES (?)", symbol); err != nil {
		return fmt.Errorf("failed to add to watchlist: %w", err)
	}

	return nil
}

// Remove deletes a symbol from the watchlist. Removing an unwatched symbol
// is a no-op.
func (r *Repository) Remove(symbol string) error {
	if _, err := r.db.Exec("DELETE FROM watchlist WHERE symbol = ?", normalize(symbol)); err != nil {
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}

	return nil
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
