package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// SetupTestRepo creates an in-memory SQLite repository for testing.
func SetupTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "open in-memory database")

	// Every new pool connection to :memory: would get its own empty
	// database, so pin the pool to a single connection.
	db.SetMaxOpenConns(1)

	err = RunMigrations(context.Background(), db)
	require.NoError(t, err, "run migrations")

	repo := &SQLiteRepo{db: db}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}
