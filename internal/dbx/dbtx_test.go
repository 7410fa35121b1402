package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func TestWithTx_Commit(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO kv (k, v) VALUES (?, ?)`, "a", "1")
		return err
	})
	require.NoError(t, err)

	var v string
	require.NoError(t, db.QueryRow(`SELECT v FROM kv WHERE k=?`, "a").Scan(&v))
	assert.Equal(t, "1", v)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO kv (k, v) VALUES (?, ?)`, "a", "1"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM kv`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	require.Panics(t, func() {
		_ = WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
			_, _ = tx.ExecContext(ctx, `INSERT INTO kv (k, v) VALUES (?, ?)`, "a", "1")
			panic("boom")
		})
	})

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM kv`).Scan(&n))
	assert.Equal(t, 0, n)
}
