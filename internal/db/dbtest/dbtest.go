// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/vaibhavguptahere/smacad-test/internal/db"
)

// New returns a fresh SQLite database with all migrations applied.
// A single connection keeps the shared in-memory database alive and
// serializes access the way a file-backed database would.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:test_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	database.SetConnMaxLifetime(0)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}
