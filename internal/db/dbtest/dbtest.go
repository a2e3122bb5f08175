// Package dbtest opens migrated throwaway SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/futurenote/futurenote/internal/db"
)

// DSN returns a sqlite connection string for path with the pragmas the
// application uses in production.
func DSN(path string) string {
	return "file:" + path +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_time_format=sqlite&_txlock=immediate"
}

// New returns a migrated database in t.TempDir, closed on cleanup.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Init(ctx, "sqlite", DSN(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })

	err = db.RunMigrations(ctx, conn.DB, "sqlite")
	require.NoError(t, err)

	return conn
}
