package watchlist

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, InitSchema(db))
	t.Cleanup(func() { db.Close() })

	return NewRepository(db, zerolog.Nop())
}

func TestAddListRemove(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Add("MSFT"))
	require.NoError(t, repo.Add("AAPL"))

	symbols, err := repo.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)

	require.NoError(t, repo.Remove("AAPL"))
	symbols, err = repo.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"MSFT"}, symbols)
}

func TestAdd_NormalizesAndDeduplicates(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Add(" aapl "))
	require.NoError(t, repo.Add("AAPL"))

	symbols, err := repo.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, symbols)
}

func TestAdd_EmptySymbol(t *testing.T) {
	repo := setupTestRepo(t)

	assert.Error(t, repo.Add("   "))
}

func TestRemove_AbsentSymbolIsNoOp(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Remove("TSLA"))

	symbols, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, symbols)
}
