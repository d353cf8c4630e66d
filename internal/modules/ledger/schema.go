package ledger

import "database/sql"

// Schema defines the holdings table and the append-only transaction log.
// purse_after is a materialized running total: the latest row by id carries
// the current purse balance.
const Schema = `
CREATE TABLE IF NOT EXISTS holdings (
    symbol TEXT PRIMARY KEY,
    quantity INTEGER NOT NULL CHECK (quantity >= 0),
    cost_basis REAL NOT NULL CHECK (cost_basis >= 0)
);

CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    reference TEXT UNIQUE NOT NULL,
    date TEXT NOT NULL,
    kind TEXT NOT NULL,
    symbol TEXT,
    value REAL NOT NULL CHECK (value >= 0),
    purse_after REAL NOT NULL,
    settled INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_transactions_kind ON transactions(kind);
CREATE INDEX IF NOT EXISTS idx_transactions_symbol ON transactions(symbol);
`

// InitSchema ensures the ledger tables exist
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
